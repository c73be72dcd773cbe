package scheduler

import (
	"time"
)

// WeeklyHours maps weekday (0-6, 0=Sunday) to configured study hours.
type WeeklyHours map[int]float64

func (h WeeklyHours) Total() float64 {
	total := 0.0
	for _, v := range h {
		if v > 0 {
			total += v
		}
	}
	return total
}

// DateOnly truncates a timestamp to its calendar date at midnight UTC. All
// engine arithmetic happens on these normalized values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func maxSessionsFor(hours WeeklyHours, weekday time.Weekday, durationMinutes int) int {
	if weekday == time.Sunday {
		return 0
	}
	configured := hours[int(weekday)]
	if configured <= 0 {
		return 0
	}
	return int(configured * 60 / float64(durationMinutes))
}

type dayInfo struct {
	Date        time.Time
	Weekday     time.Weekday
	MaxSessions int
}

type dateRangeKey struct {
	start       int64
	end         int64
	weekdayOnly bool
}

// Calendar answers capacity questions for one generation run. Eligible-date
// lists are memoized per (start, end, weekdayOnly) since the slot finders are
// invoked once per topic and review.
type Calendar struct {
	hours           WeeklyHours
	durationMinutes int
	examDate        time.Time
	cache           map[dateRangeKey][]dayInfo
}

func NewCalendar(hours WeeklyHours, durationMinutes int, examDate time.Time) *Calendar {
	if durationMinutes <= 0 {
		durationMinutes = defaultSessionMinutes
	}
	return &Calendar{
		hours:           hours,
		durationMinutes: durationMinutes,
		examDate:        DateOnly(examDate),
		cache:           map[dateRangeKey][]dayInfo{},
	}
}

// Capacity returns the maximum session count for a date: zero on Sundays and
// on weekdays with no configured hours.
func (c *Calendar) Capacity(date time.Time) int {
	return maxSessionsFor(c.hours, date.Weekday(), c.durationMinutes)
}

// availableDates lists the schedulable dates from start through the exam date
// inclusive. Sundays are always excluded; Saturdays too when weekdayOnly is
// set. Days without configured hours never appear.
func (c *Calendar) availableDates(start time.Time, weekdayOnly bool) []dayInfo {
	start = DateOnly(start)
	key := dateRangeKey{start: start.Unix(), end: c.examDate.Unix(), weekdayOnly: weekdayOnly}
	if cached, ok := c.cache[key]; ok {
		return cached
	}

	var dates []dayInfo
	for d := start; !d.After(c.examDate); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd == time.Sunday || (weekdayOnly && wd == time.Saturday) {
			continue
		}
		max := maxSessionsFor(c.hours, wd, c.durationMinutes)
		if max <= 0 {
			continue
		}
		dates = append(dates, dayInfo{Date: d, Weekday: wd, MaxSessions: max})
	}
	c.cache[key] = dates
	return dates
}

// FindNextSlot returns the first date on or after start with free capacity in
// the agenda, or false when the deadline is exhausted.
func (c *Calendar) FindNextSlot(agenda *Agenda, start time.Time, weekdayOnly bool) (time.Time, bool) {
	for _, info := range c.availableDates(start, weekdayOnly) {
		if agenda.CountOn(info.Date) < info.MaxSessions {
			return info.Date, true
		}
	}
	return time.Time{}, false
}

// NextSaturday finds the first Saturday with free capacity on or after start.
// Reviews prefer Saturdays but fall back to any open day rather than being
// dropped.
func (c *Calendar) NextSaturday(agenda *Agenda, start time.Time) (time.Time, bool) {
	for _, info := range c.availableDates(start, false) {
		if info.Weekday != time.Saturday {
			continue
		}
		if agenda.CountOn(info.Date) < info.MaxSessions {
			return info.Date, true
		}
	}
	return c.FindNextSlot(agenda, start, false)
}
