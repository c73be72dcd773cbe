package scheduler

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/examtrail/examtrail-backend/internal/types"
)

const (
	defaultSessionMinutes = 50
	simulationBlockSize   = 15
)

const (
	essaySubject     = "Essay"
	essayDescription = "Argumentative essay practice focused on structure, cohesion and argumentation."

	fullSimulationSubject     = "Full Simulation"
	fullSimulationDescription = "Full-length mock exam covering the entire syllabus. Focus on timing, strategy and stamina."
)

// ErrNoStudyHours rejects a generation run before any agenda work starts.
var ErrNoStudyHours = errors.New("no weekly study hours configured")

// GenerateInput carries everything one generation run needs. The engine does
// no I/O; the caller loads the plan and topics and persists the result.
type GenerateInput struct {
	Today                  time.Time
	ExamDate               time.Time
	WeeklyHours            WeeklyHours
	SessionDurationMinutes int
	HasEssay               bool
	Topics                 []TopicRef
	Rand                   *rand.Rand
}

type GenerateResult struct {
	Sessions          []SessionDraft
	StudySessions     int
	ReviewSessions    int
	EssaySessions     int
	SimulationCount   int
	UnplacedTopics    int
	NothingToSchedule bool
}

type generator struct {
	today       time.Time
	calendar    *Calendar
	agenda      *Agenda
	reviewCount int
}

// Generate runs the full phase sequence: essays, reviews for already
// completed topics, new topics with their reviews, directed-simulation
// maintenance and full-simulation fill. Running out of capacity mid-phase is
// not an error; later phases simply place fewer sessions.
func Generate(in GenerateInput) (*GenerateResult, error) {
	if in.WeeklyHours.Total() == 0 {
		return nil, ErrNoStudyHours
	}
	if len(in.Topics) == 0 {
		return &GenerateResult{NothingToSchedule: true}, nil
	}
	if in.ExamDate.IsZero() {
		return nil, fmt.Errorf("exam date is required")
	}

	rng := in.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	today := DateOnly(in.Today)
	g := &generator{
		today:    today,
		calendar: NewCalendar(in.WeeklyHours, in.SessionDurationMinutes, in.ExamDate),
		agenda:   NewAgenda(),
	}

	result := &GenerateResult{}

	// Phase 1: one essay session per Sunday until the exam. Sundays carry no
	// regular capacity, so this phase bypasses the slot finder on purpose.
	if in.HasEssay {
		for d := today; !d.After(g.calendar.examDate); d = d.AddDate(0, 0, 1) {
			if d.Weekday() != time.Sunday {
				continue
			}
			g.agenda.Add(d, SessionDraft{
				SubjectName: essaySubject,
				Description: essayDescription,
				SessionType: types.SessionTypeEssay,
			})
			result.EssaySessions++
		}
	}

	// Phase 2: reviews for topics finished before this run.
	for _, topic := range in.Topics {
		if topic.Status == types.TopicStatusCompleted && topic.CompletionDate != nil {
			g.scheduleReviews(topic, DateOnly(*topic.CompletionDate))
		}
	}

	// Phase 3: new-topic sessions in prioritized order, each followed by its
	// reviews. Saturdays are reserved for reviews here (weekday-only slots).
	var pending []TopicRef
	for _, topic := range in.Topics {
		if topic.Status != types.TopicStatusCompleted {
			pending = append(pending, topic)
		}
	}
	ordered := PrioritizeTopics(pending, rng)

	cursor := today
	var lastNewTopicDate *time.Time
	for i, topic := range ordered {
		studyDay, ok := g.calendar.FindNextSlot(g.agenda, cursor, true)
		if !ok {
			result.UnplacedTopics = len(ordered) - i
			break
		}
		g.agenda.Add(studyDay, SessionDraft{
			TopicID:     ptrTo(topic.ID),
			SubjectName: topic.SubjectName,
			Description: topic.Description,
			SessionType: types.SessionTypeNewTopic,
		})
		result.StudySessions++
		g.scheduleReviews(topic, studyDay)

		day := studyDay
		lastNewTopicDate = &day
		cursor = studyDay.AddDate(0, 0, 1)
	}

	// Phase 4: directed simulations cycling through fixed-size topic blocks,
	// one full wrap at most.
	maintenanceStart := today
	if lastNewTopicDate != nil {
		maintenanceStart = lastNewTopicDate.AddDate(0, 0, 1)
	}
	blocks := partitionBlocks(in.Topics, simulationBlockSize)
	if len(blocks) > 0 {
		blockIndex := 0
		cursor := maintenanceStart
		for {
			studyDay, ok := g.calendar.FindNextSlot(g.agenda, cursor, false)
			if !ok {
				break
			}
			block := blocks[blockIndex%len(blocks)]
			g.agenda.Add(studyDay, SessionDraft{
				SubjectName: fmt.Sprintf("Directed Simulation #%d", blockIndex%len(blocks)+1),
				Description: describeBlock(block),
				SessionType: types.SessionTypeDirectedSimulation,
			})
			result.SimulationCount++
			blockIndex++
			cursor = studyDay.AddDate(0, 0, 1)
			if blockIndex%len(blocks) == 0 {
				break
			}
		}
	}

	// Phase 5: full simulations fill whatever capacity is left.
	cursor = maintenanceStart
	for {
		studyDay, ok := g.calendar.FindNextSlot(g.agenda, cursor, false)
		if !ok {
			break
		}
		g.agenda.Add(studyDay, SessionDraft{
			SubjectName: fullSimulationSubject,
			Description: fullSimulationDescription,
			SessionType: types.SessionTypeFullSimulation,
		})
		result.SimulationCount++
		cursor = studyDay.AddDate(0, 0, 1)
	}

	result.ReviewSessions = g.reviewCount
	result.Sessions = g.agenda.Flatten()
	return result, nil
}

func partitionBlocks(topics []TopicRef, size int) [][]TopicRef {
	var blocks [][]TopicRef
	for start := 0; start < len(topics); start += size {
		end := start + size
		if end > len(topics) {
			end = len(topics)
		}
		blocks = append(blocks, topics[start:end])
	}
	return blocks
}

// describeBlock groups a block's topics by subject for the session text.
func describeBlock(block []TopicRef) string {
	bySubject := map[string][]string{}
	var subjects []string
	for _, topic := range block {
		if _, ok := bySubject[topic.SubjectName]; !ok {
			subjects = append(subjects, topic.SubjectName)
		}
		bySubject[topic.SubjectName] = append(bySubject[topic.SubjectName], "- "+topic.Description)
	}

	parts := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		parts = append(parts, subject+"\n"+strings.Join(bySubject[subject], "\n"))
	}
	return "Review and solve questions on the following topics:\n\n" + strings.Join(parts, "\n\n")
}

func ptrTo(id uuid.UUID) *uuid.UUID {
	return &id
}
