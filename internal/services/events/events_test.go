package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSubject(t *testing.T) {
	if got := Subject("abc"); got != "castle.sessions.abc.events" {
		t.Fatalf("subject = %q", got)
	}
}

func TestEventJSON(t *testing.T) {
	e := Event{
		SessionID:  "s1",
		Version:    3,
		Move:       "draw",
		Actor:      "X",
		State:      "ongoing",
		TurnNumber: 1,
		Notices:    []Notice{{Text: "Opponent drew a card", Audience: "allExcept", Seat: "X"}},
		At:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"sessionId", "version", "move", "actor", "state", "turnNumber", "ended", "notices", "at"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing %q in %s", key, data)
		}
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(Event{SessionID: "s1"}); err != nil {
		t.Fatal(err)
	}
	p.Close()
}
