package scheduler

import (
	"time"

	"github.com/examtrail/examtrail-backend/internal/types"
)

var reviewOffsets = []struct {
	days        int
	sessionType string
}{
	{7, types.SessionTypeReview7},
	{14, types.SessionTypeReview14},
	{28, types.SessionTypeReview28},
}

// scheduleReviews enqueues the spaced-repetition follow-ups for a topic whose
// reference study date is baseDate. Each offset whose target still fits
// between today and the exam date is snapped to the next open Saturday (or
// any open day as fallback); targets outside the window are skipped silently.
func (g *generator) scheduleReviews(topic TopicRef, baseDate time.Time) {
	for _, offset := range reviewOffsets {
		target := baseDate.AddDate(0, 0, offset.days)
		if target.Before(g.today) || target.After(g.calendar.examDate) {
			continue
		}
		reviewDay, ok := g.calendar.NextSaturday(g.agenda, target)
		if !ok {
			continue
		}
		g.agenda.Add(reviewDay, SessionDraft{
			TopicID:     ptrTo(topic.ID),
			SubjectName: topic.SubjectName,
			Description: topic.Description,
			SessionType: offset.sessionType,
		})
		g.reviewCount++
	}
}
