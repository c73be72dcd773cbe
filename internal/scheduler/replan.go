package scheduler

import (
	"time"

	"github.com/google/uuid"
)

// OverdueSession is a pending session whose date slipped into the past.
// Callers must supply them in ascending (date, id) order.
type OverdueSession struct {
	ID   uuid.UUID
	Date time.Time
}

type ReplanInput struct {
	Today                  time.Time
	ExamDate               time.Time
	WeeklyHours            WeeklyHours
	SessionDurationMinutes int
	Overdue                []OverdueSession
	// ScheduledCounts holds the plan's current session count per date key
	// (DateKey format); it is the occupancy baseline for capacity checks.
	ScheduledCounts map[string]int
}

type SessionMove struct {
	ID      uuid.UUID
	NewDate time.Time
}

type ReplanResult struct {
	Moves []SessionMove
	// Remaining counts overdue sessions that found no slot before the exam;
	// they stay in the past for the next replan attempt.
	Remaining int
	// PostponementIncrement is applied to the plan by the caller, in the same
	// transaction as the moves. One per invocation, not per session.
	PostponementIncrement int
	NothingToReplan       bool
}

// Replan reassigns overdue sessions, in their given order, to the next dates
// with free capacity starting from today. The cursor stays on each assigned
// date so consecutive sessions pack into the same day up to capacity, keeping
// their relative order.
func Replan(in ReplanInput) *ReplanResult {
	if len(in.Overdue) == 0 {
		return &ReplanResult{NothingToReplan: true}
	}

	duration := in.SessionDurationMinutes
	if duration <= 0 {
		duration = defaultSessionMinutes
	}
	examDate := DateOnly(in.ExamDate)

	counts := make(map[string]int, len(in.ScheduledCounts))
	for key, count := range in.ScheduledCounts {
		counts[key] = count
	}

	result := &ReplanResult{PostponementIncrement: 1}
	cursor := DateOnly(in.Today)
	for i, session := range in.Overdue {
		newDate, ok := nextOpenDate(cursor, examDate, in.WeeklyHours, duration, counts)
		if !ok {
			result.Remaining = len(in.Overdue) - i
			break
		}
		counts[DateKey(newDate)]++
		result.Moves = append(result.Moves, SessionMove{ID: session.ID, NewDate: newDate})
		cursor = newDate
	}
	return result
}

// NextOpenDate finds the first date on or after start, up to the exam date,
// with free capacity given the occupancy counts. Single-session moves
// (postpone, reinforcement) use it directly.
func NextOpenDate(start, examDate time.Time, hours WeeklyHours, durationMinutes int, counts map[string]int) (time.Time, bool) {
	if durationMinutes <= 0 {
		durationMinutes = defaultSessionMinutes
	}
	return nextOpenDate(DateOnly(start), DateOnly(examDate), hours, durationMinutes, counts)
}

// nextOpenDate walks forward day by day, Sundays excluded, with no
// weekday/weekend preference.
func nextOpenDate(start, examDate time.Time, hours WeeklyHours, duration int, counts map[string]int) (time.Time, bool) {
	for d := start; !d.After(examDate); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		max := maxSessionsFor(hours, d.Weekday(), duration)
		if max > 0 && counts[DateKey(d)] < max {
			return d, true
		}
	}
	return time.Time{}, false
}
