package scheduler

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func replanInput(overdue []OverdueSession, counts map[string]int) ReplanInput {
	return ReplanInput{
		Today:                  testToday,
		ExamDate:               testToday.AddDate(0, 0, 30),
		WeeklyHours:            weekdayHours(2, 0),
		SessionDurationMinutes: 60,
		Overdue:                overdue,
		ScheduledCounts:        counts,
	}
}

func overdueOn(daysAgo int) OverdueSession {
	return OverdueSession{ID: uuid.New(), Date: testToday.AddDate(0, 0, -daysAgo)}
}

func TestReplanPreservesOrder(t *testing.T) {
	overdue := []OverdueSession{overdueOn(5), overdueOn(3), overdueOn(1)}
	result := Replan(replanInput(overdue, nil))

	if len(result.Moves) != 3 {
		t.Fatalf("moved %d sessions, want 3", len(result.Moves))
	}
	for i := 1; i < len(result.Moves); i++ {
		if result.Moves[i].NewDate.Before(result.Moves[i-1].NewDate) {
			t.Fatalf("moves reordered: %s before %s",
				DateKey(result.Moves[i].NewDate), DateKey(result.Moves[i-1].NewDate))
		}
	}
	if result.PostponementIncrement != 1 {
		t.Fatalf("PostponementIncrement = %d, want 1", result.PostponementIncrement)
	}
}

func TestReplanPacksUpToCapacity(t *testing.T) {
	// Two hours at 60 minutes gives two slots per weekday: the first two
	// sessions share today, the third spills to tomorrow.
	overdue := []OverdueSession{overdueOn(3), overdueOn(2), overdueOn(1)}
	result := Replan(replanInput(overdue, nil))

	if len(result.Moves) != 3 {
		t.Fatalf("moved %d sessions, want 3", len(result.Moves))
	}
	if !result.Moves[0].NewDate.Equal(testToday) || !result.Moves[1].NewDate.Equal(testToday) {
		t.Fatalf("first two moves on %s and %s, want both today",
			DateKey(result.Moves[0].NewDate), DateKey(result.Moves[1].NewDate))
	}
	if !result.Moves[2].NewDate.Equal(testToday.AddDate(0, 0, 1)) {
		t.Fatalf("third move on %s, want tomorrow", DateKey(result.Moves[2].NewDate))
	}
}

func TestReplanRespectsExistingOccupancy(t *testing.T) {
	counts := map[string]int{DateKey(testToday): 2} // today already full
	result := Replan(replanInput([]OverdueSession{overdueOn(1)}, counts))

	if len(result.Moves) != 1 {
		t.Fatalf("moved %d sessions, want 1", len(result.Moves))
	}
	if result.Moves[0].NewDate.Equal(testToday) {
		t.Fatalf("session moved onto a full day")
	}
}

func TestReplanSkipsSundays(t *testing.T) {
	overdue := make([]OverdueSession, 0, 14)
	for i := 0; i < 14; i++ {
		overdue = append(overdue, overdueOn(14-i))
	}
	result := Replan(replanInput(overdue, nil))
	for _, move := range result.Moves {
		if move.NewDate.Weekday() == time.Sunday {
			t.Fatalf("session replanned onto a Sunday")
		}
	}
}

func TestReplanStopsAtDeadline(t *testing.T) {
	in := replanInput([]OverdueSession{overdueOn(3), overdueOn(2), overdueOn(1)}, nil)
	in.ExamDate = testToday // one eligible day, two slots
	result := Replan(in)

	if len(result.Moves) != 2 {
		t.Fatalf("moved %d sessions, want 2", len(result.Moves))
	}
	if result.Remaining != 1 {
		t.Fatalf("Remaining = %d, want 1", result.Remaining)
	}
}

func TestReplanNothingToDo(t *testing.T) {
	result := Replan(replanInput(nil, nil))
	if !result.NothingToReplan {
		t.Fatalf("expected NothingToReplan")
	}
	if result.PostponementIncrement != 0 {
		t.Fatalf("PostponementIncrement = %d, want 0", result.PostponementIncrement)
	}
}
