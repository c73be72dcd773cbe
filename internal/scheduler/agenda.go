package scheduler

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SessionDraft is one scheduled unit of work before persistence.
type SessionDraft struct {
	TopicID     *uuid.UUID
	SubjectName string
	Description string
	Date        time.Time
	SessionType string
}

// Agenda accumulates drafts per date during one generation run and is the
// single source of truth for capacity checks. It is never persisted directly.
type Agenda struct {
	byDate map[string][]SessionDraft
}

func NewAgenda() *Agenda {
	return &Agenda{byDate: map[string][]SessionDraft{}}
}

func (a *Agenda) Add(date time.Time, draft SessionDraft) {
	date = DateOnly(date)
	draft.Date = date
	key := DateKey(date)
	a.byDate[key] = append(a.byDate[key], draft)
}

func (a *Agenda) CountOn(date time.Time) int {
	return len(a.byDate[DateKey(date)])
}

func (a *Agenda) Len() int {
	total := 0
	for _, drafts := range a.byDate {
		total += len(drafts)
	}
	return total
}

// Flatten returns all drafts ordered by date, preserving insertion order
// within a day.
func (a *Agenda) Flatten() []SessionDraft {
	keys := make([]string, 0, len(a.byDate))
	for key := range a.byDate {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]SessionDraft, 0, a.Len())
	for _, key := range keys {
		out = append(out, a.byDate[key]...)
	}
	return out
}
