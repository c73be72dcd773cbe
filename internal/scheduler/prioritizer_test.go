package scheduler

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
)

func TestPrioritizeTopicsIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	topics := make([]TopicRef, 0, 10)
	for i := 0; i < 10; i++ {
		topics = append(topics, TopicRef{ID: uuid.New(), Priority: i%5 + 1})
	}

	ordered := PrioritizeTopics(topics, rng)
	if len(ordered) != len(topics) {
		t.Fatalf("got %d topics, want %d", len(ordered), len(topics))
	}
	seen := map[uuid.UUID]bool{}
	for _, topic := range ordered {
		if seen[topic.ID] {
			t.Fatalf("topic %s appears twice", topic.ID)
		}
		seen[topic.ID] = true
	}
	for _, topic := range topics {
		if !seen[topic.ID] {
			t.Fatalf("topic %s missing from result", topic.ID)
		}
	}
}

func TestPrioritizeTopicsKeepsZeroWeightTopics(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	topics := []TopicRef{
		{ID: uuid.New(), Priority: 0},
		{ID: uuid.New(), Priority: 5},
	}
	ordered := PrioritizeTopics(topics, rng)
	if len(ordered) != 2 {
		t.Fatalf("got %d topics, want 2", len(ordered))
	}
}

func TestPrioritizeTopicsBiasesHighWeight(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	heavy := TopicRef{ID: uuid.New(), Priority: 5}
	light := TopicRef{ID: uuid.New(), Priority: 1}
	topics := []TopicRef{light, heavy}

	const runs = 500
	heavyFirst := 0
	for i := 0; i < runs; i++ {
		ordered := PrioritizeTopics(topics, rng)
		if ordered[0].ID == heavy.ID {
			heavyFirst++
		}
	}
	// A 5:1 pool puts the heavy topic first ~5/6 of the time; 60% is a
	// generous floor for a seeded run of 500.
	if heavyFirst < runs*60/100 {
		t.Fatalf("heavy topic first only %d/%d times", heavyFirst, runs)
	}
}
