package scheduler

import (
	"testing"
	"time"
)

// Monday, June 2nd 2025. Fixed origin keeps weekday math honest.
var testToday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func weekdayHours(hours float64, saturday float64) WeeklyHours {
	return WeeklyHours{
		1: hours, 2: hours, 3: hours, 4: hours, 5: hours,
		6: saturday,
	}
}

func TestCapacityFloorAndSunday(t *testing.T) {
	cal := NewCalendar(weekdayHours(3.5, 2), 60, testToday.AddDate(0, 0, 60))

	monday := testToday
	if got := cal.Capacity(monday); got != 3 {
		t.Fatalf("weekday capacity = %d, want 3", got)
	}
	saturday := testToday.AddDate(0, 0, 5)
	if saturday.Weekday() != time.Saturday {
		t.Fatalf("expected Saturday, got %v", saturday.Weekday())
	}
	if got := cal.Capacity(saturday); got != 2 {
		t.Fatalf("saturday capacity = %d, want 2", got)
	}
	sunday := testToday.AddDate(0, 0, 6)
	if got := cal.Capacity(sunday); got != 0 {
		t.Fatalf("sunday capacity = %d, want 0", got)
	}
}

func TestCapacityIdempotent(t *testing.T) {
	cal := NewCalendar(weekdayHours(4, 0), 50, testToday.AddDate(0, 0, 30))
	date := testToday.AddDate(0, 0, 3)
	first := cal.Capacity(date)
	second := cal.Capacity(date)
	if first != second {
		t.Fatalf("capacity not stable: %d then %d", first, second)
	}
}

func TestCapacityZeroHourWeekday(t *testing.T) {
	hours := WeeklyHours{1: 2} // Mondays only
	cal := NewCalendar(hours, 60, testToday.AddDate(0, 0, 30))
	tuesday := testToday.AddDate(0, 0, 1)
	if got := cal.Capacity(tuesday); got != 0 {
		t.Fatalf("zero-hour weekday capacity = %d, want 0", got)
	}
}

func TestFindNextSlotSkipsSaturdayWhenWeekdayOnly(t *testing.T) {
	hours := WeeklyHours{6: 4} // Saturdays only
	cal := NewCalendar(hours, 60, testToday.AddDate(0, 0, 14))
	agenda := NewAgenda()

	if _, ok := cal.FindNextSlot(agenda, testToday, true); ok {
		t.Fatalf("weekday-only finder returned a slot with Saturday-only hours")
	}
	slot, ok := cal.FindNextSlot(agenda, testToday, false)
	if !ok {
		t.Fatalf("expected a Saturday slot")
	}
	if slot.Weekday() != time.Saturday {
		t.Fatalf("slot on %v, want Saturday", slot.Weekday())
	}
}

func TestFindNextSlotRespectsAgendaCounts(t *testing.T) {
	cal := NewCalendar(weekdayHours(1, 0), 60, testToday.AddDate(0, 0, 14))
	agenda := NewAgenda()

	first, ok := cal.FindNextSlot(agenda, testToday, false)
	if !ok || !first.Equal(testToday) {
		t.Fatalf("first slot = %v ok=%v, want today", first, ok)
	}
	agenda.Add(first, SessionDraft{SessionType: "x"})

	second, ok := cal.FindNextSlot(agenda, testToday, false)
	if !ok {
		t.Fatalf("expected a second slot")
	}
	if !second.After(first) {
		t.Fatalf("second slot %v not after full day %v", second, first)
	}
}

func TestFindNextSlotDeadlineExhausted(t *testing.T) {
	cal := NewCalendar(weekdayHours(1, 0), 60, testToday)
	agenda := NewAgenda()
	agenda.Add(testToday, SessionDraft{SessionType: "x"})

	if _, ok := cal.FindNextSlot(agenda, testToday, false); ok {
		t.Fatalf("found a slot past the deadline")
	}
}

func TestNextSaturdayPrefersSaturday(t *testing.T) {
	cal := NewCalendar(weekdayHours(4, 2), 60, testToday.AddDate(0, 0, 30))
	agenda := NewAgenda()

	day, ok := cal.NextSaturday(agenda, testToday)
	if !ok {
		t.Fatalf("expected a Saturday")
	}
	if day.Weekday() != time.Saturday {
		t.Fatalf("review day on %v, want Saturday", day.Weekday())
	}
	if day.Before(testToday) {
		t.Fatalf("review day %v before start", day)
	}
}

func TestNextSaturdayFallsBackToWeekdays(t *testing.T) {
	cal := NewCalendar(weekdayHours(4, 0), 60, testToday.AddDate(0, 0, 30))
	agenda := NewAgenda()

	day, ok := cal.NextSaturday(agenda, testToday)
	if !ok {
		t.Fatalf("expected a fallback slot")
	}
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		t.Fatalf("fallback slot on %v, want a weekday", day.Weekday())
	}
}
