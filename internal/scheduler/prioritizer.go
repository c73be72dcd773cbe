package scheduler

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// TopicRef is the engine's read-only view of a syllabus topic.
type TopicRef struct {
	ID             uuid.UUID
	SubjectName    string
	Description    string
	Priority       int
	Status         string
	CompletionDate *time.Time
}

// PrioritizeTopics produces a study order biased toward higher-priority
// topics. Each topic enters a pool once per priority point, the pool is
// shuffled with Fisher-Yates, and the first occurrence of each topic wins.
// Equal-weight subjects end up interleaved instead of block-scheduled; the
// order is intentionally not deterministic.
func PrioritizeTopics(topics []TopicRef, rng *rand.Rand) []TopicRef {
	var pool []TopicRef
	for _, topic := range topics {
		weight := topic.Priority
		if weight < 1 {
			weight = 1
		}
		for i := 0; i < weight; i++ {
			pool = append(pool, topic)
		}
	}

	for i := len(pool) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}

	seen := make(map[uuid.UUID]bool, len(topics))
	ordered := make([]TopicRef, 0, len(topics))
	for _, topic := range pool {
		if seen[topic.ID] {
			continue
		}
		seen[topic.ID] = true
		ordered = append(ordered, topic)
	}
	return ordered
}
