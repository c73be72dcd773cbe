package scheduler

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/examtrail/examtrail-backend/internal/types"
)

func pendingTopic(subject, description string, priority int) TopicRef {
	return TopicRef{
		ID:          uuid.New(),
		SubjectName: subject,
		Description: description,
		Priority:    priority,
		Status:      types.TopicStatusPending,
	}
}

func generateInput(examOffsetDays int, hours WeeklyHours, topics []TopicRef) GenerateInput {
	return GenerateInput{
		Today:                  testToday,
		ExamDate:               testToday.AddDate(0, 0, examOffsetDays),
		WeeklyHours:            hours,
		SessionDurationMinutes: 60,
		Topics:                 topics,
		Rand:                   rand.New(rand.NewSource(11)),
	}
}

// assertScheduleInvariants checks the properties every generated schedule
// must satisfy: the per-date capacity bound, no non-essay session on a
// Sunday, nothing after the exam date, nothing before today.
func assertScheduleInvariants(t *testing.T, in GenerateInput, result *GenerateResult) {
	t.Helper()
	cal := NewCalendar(in.WeeklyHours, in.SessionDurationMinutes, in.ExamDate)
	counts := map[string]int{}
	for _, s := range result.Sessions {
		if s.Date.After(DateOnly(in.ExamDate)) {
			t.Fatalf("session %q on %s is past the exam date", s.SessionType, DateKey(s.Date))
		}
		if s.Date.Before(DateOnly(in.Today)) {
			t.Fatalf("session %q on %s is in the past", s.SessionType, DateKey(s.Date))
		}
		if s.SessionType == types.SessionTypeEssay {
			if s.Date.Weekday() != time.Sunday {
				t.Fatalf("essay session on %v, want Sunday", s.Date.Weekday())
			}
			continue
		}
		if s.Date.Weekday() == time.Sunday {
			t.Fatalf("session %q placed on a Sunday", s.SessionType)
		}
		counts[DateKey(s.Date)]++
		if counts[DateKey(s.Date)] > cal.Capacity(s.Date) {
			t.Fatalf("date %s holds %d sessions, capacity %d",
				DateKey(s.Date), counts[DateKey(s.Date)], cal.Capacity(s.Date))
		}
	}
}

func sessionsOfType(result *GenerateResult, sessionType string) []SessionDraft {
	var out []SessionDraft
	for _, s := range result.Sessions {
		if s.SessionType == sessionType {
			out = append(out, s)
		}
	}
	return out
}

func TestGenerateWeekdayPlan(t *testing.T) {
	// Scenario: 4h Mon-Fri, nothing on weekends, 60-minute sessions, three
	// pending topics, exam 30 days out.
	topics := []TopicRef{
		pendingTopic("Constitutional Law", "Fundamental rights", 3),
		pendingTopic("Constitutional Law", "State organization", 3),
		pendingTopic("Portuguese", "Verbal agreement", 3),
	}
	in := generateInput(30, weekdayHours(4, 0), topics)

	result, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertScheduleInvariants(t, in, result)

	newTopics := sessionsOfType(result, types.SessionTypeNewTopic)
	if len(newTopics) != 3 {
		t.Fatalf("placed %d new-topic sessions, want 3", len(newTopics))
	}
	for _, s := range newTopics {
		if s.Date.Weekday() == time.Saturday || s.Date.Weekday() == time.Sunday {
			t.Fatalf("new-topic session on %v, want a weekday", s.Date.Weekday())
		}
	}
	if result.StudySessions != 3 {
		t.Fatalf("StudySessions = %d, want 3", result.StudySessions)
	}
	// All nine review targets fall inside the window; with no Saturday hours
	// they land on open weekdays through the fallback path.
	if result.ReviewSessions != 9 {
		t.Fatalf("ReviewSessions = %d, want 9", result.ReviewSessions)
	}
	if result.UnplacedTopics != 0 {
		t.Fatalf("UnplacedTopics = %d, want 0", result.UnplacedTopics)
	}
}

func TestGenerateReviewsSnapToSaturdays(t *testing.T) {
	topics := []TopicRef{
		pendingTopic("Math", "Percentages", 2),
		pendingTopic("Math", "Ratios", 2),
	}
	in := generateInput(45, weekdayHours(4, 4), topics)

	result, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertScheduleInvariants(t, in, result)

	reviewType := map[string]int{
		types.SessionTypeReview7:  7,
		types.SessionTypeReview14: 14,
		types.SessionTypeReview28: 28,
	}
	studyDates := map[uuid.UUID]time.Time{}
	for _, s := range sessionsOfType(result, types.SessionTypeNewTopic) {
		studyDates[*s.TopicID] = s.Date
	}
	for _, s := range result.Sessions {
		days, ok := reviewType[s.SessionType]
		if !ok {
			continue
		}
		if s.Date.Weekday() != time.Saturday {
			t.Fatalf("%s on %v, want Saturday", s.SessionType, s.Date.Weekday())
		}
		target := studyDates[*s.TopicID].AddDate(0, 0, days)
		if s.Date.Before(target) {
			t.Fatalf("%s on %s, before its target %s", s.SessionType, DateKey(s.Date), DateKey(target))
		}
	}
}

func TestGenerateLegacyReviewsForCompletedTopics(t *testing.T) {
	completion := testToday.AddDate(0, 0, -3)
	topics := []TopicRef{
		{
			ID:             uuid.New(),
			SubjectName:    "History",
			Description:    "Colonial period",
			Priority:       3,
			Status:         types.TopicStatusCompleted,
			CompletionDate: &completion,
		},
		pendingTopic("History", "Empire", 3),
	}
	in := generateInput(40, weekdayHours(4, 2), topics)

	result, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertScheduleInvariants(t, in, result)

	// Completed 3 days ago: targets at +7/+14/+28 are all in range, so the
	// completed topic gets its three reviews without a new-topic session.
	completedID := topics[0].ID
	reviews := 0
	for _, s := range result.Sessions {
		if s.TopicID == nil || *s.TopicID != completedID {
			continue
		}
		if s.SessionType == types.SessionTypeNewTopic {
			t.Fatalf("completed topic received a new-topic session")
		}
		reviews++
	}
	if reviews != 3 {
		t.Fatalf("completed topic got %d reviews, want 3", reviews)
	}
}

func TestGenerateRejectsZeroWeeklyHours(t *testing.T) {
	in := generateInput(30, WeeklyHours{}, []TopicRef{pendingTopic("Law", "Any", 3)})
	if _, err := Generate(in); !errors.Is(err, ErrNoStudyHours) {
		t.Fatalf("err = %v, want ErrNoStudyHours", err)
	}
}

func TestGenerateEmptyTopicListShortCircuits(t *testing.T) {
	in := generateInput(30, weekdayHours(4, 0), nil)
	result, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !result.NothingToSchedule {
		t.Fatalf("expected NothingToSchedule")
	}
	if len(result.Sessions) != 0 {
		t.Fatalf("got %d sessions, want none", len(result.Sessions))
	}
}

func TestGenerateDeadlineTomorrowDegradesGracefully(t *testing.T) {
	topics := make([]TopicRef, 0, 50)
	for i := 0; i < 50; i++ {
		topics = append(topics, pendingTopic("Law", "Topic", 3))
	}
	in := generateInput(1, weekdayHours(4, 0), topics)

	result, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertScheduleInvariants(t, in, result)

	// The cursor advances one day per placement, so two days of runway hold
	// at most two new-topic sessions; the rest are reported, not errored.
	if result.StudySessions != 2 {
		t.Fatalf("StudySessions = %d, want 2", result.StudySessions)
	}
	if result.UnplacedTopics != 48 {
		t.Fatalf("UnplacedTopics = %d, want 48", result.UnplacedTopics)
	}
}

func TestGenerateEssaysOnSundays(t *testing.T) {
	// Exam 13 days out: the window holds exactly two Sundays, and weekend
	// capacity being zero must not matter for essays.
	topics := []TopicRef{pendingTopic("Law", "Any", 3)}
	in := generateInput(13, weekdayHours(4, 0), topics)
	in.HasEssay = true

	result, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertScheduleInvariants(t, in, result)

	essays := sessionsOfType(result, types.SessionTypeEssay)
	if len(essays) != 2 {
		t.Fatalf("placed %d essay sessions, want 2", len(essays))
	}
	for _, s := range essays {
		if s.Date.Weekday() != time.Sunday {
			t.Fatalf("essay on %v, want Sunday", s.Date.Weekday())
		}
	}
	if result.EssaySessions != 2 {
		t.Fatalf("EssaySessions = %d, want 2", result.EssaySessions)
	}
}

func TestGenerateMaintenanceStopsAfterOneWrap(t *testing.T) {
	// 16 topics make two simulation blocks; with ample capacity the
	// maintenance phase must still stop after a single wrap and leave the
	// rest to full simulations.
	topics := make([]TopicRef, 0, 16)
	for i := 0; i < 16; i++ {
		topics = append(topics, pendingTopic("Law", "Topic", 3))
	}
	in := generateInput(90, weekdayHours(8, 4), topics)

	result, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertScheduleInvariants(t, in, result)

	directed := sessionsOfType(result, types.SessionTypeDirectedSimulation)
	if len(directed) != 2 {
		t.Fatalf("placed %d directed simulations, want 2 (one wrap)", len(directed))
	}
	if full := sessionsOfType(result, types.SessionTypeFullSimulation); len(full) == 0 {
		t.Fatalf("expected full simulations to fill remaining capacity")
	}
}

func TestGenerateResultCountsMatchSessions(t *testing.T) {
	topics := []TopicRef{
		pendingTopic("Law", "A", 5),
		pendingTopic("Law", "B", 1),
	}
	in := generateInput(30, weekdayHours(2, 1), topics)
	in.HasEssay = true

	result, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	counted := result.StudySessions + result.ReviewSessions +
		result.EssaySessions + result.SimulationCount
	if counted != len(result.Sessions) {
		t.Fatalf("counters add to %d, session list holds %d", counted, len(result.Sessions))
	}
}
