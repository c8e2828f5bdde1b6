package telemetry

import (
	"sync"
	"testing"
)

// capture is a Sink for tests that records every event it receives.
type capture struct {
	mu     sync.Mutex
	events []Event
}

func (c *capture) Emit(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestCaptureSink(t *testing.T) {
	sink := &capture{}
	sink.Emit(Event{Type: EventGameCreated, GameID: "ab12"})
	sink.Emit(Event{Type: EventMoveApplied, GameID: "ab12", PlayerID: "p1"})

	if sink.count() != 2 {
		t.Errorf("Expected 2 events, got %d", sink.count())
	}
	if sink.events[0].Type != EventGameCreated {
		t.Errorf("Expected game_created first, got %s", sink.events[0].Type)
	}
}

func TestNopAndLogDoNotPanic(t *testing.T) {
	var sinks = []Sink{Nop{}, Log{}}
	for _, sink := range sinks {
		sink.Emit(Event{})
		sink.Emit(Event{
			Type:     EventGameEnded,
			GameID:   "ab12",
			PlayerID: "p1",
			Fields:   map[string]any{"winner": "A"},
		})
	}
}
