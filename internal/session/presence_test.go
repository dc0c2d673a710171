package session

import (
	"castle/internal/game/match"
	"errors"
	"testing"
)

func TestPresenceBindings(t *testing.T) {
	p := NewPresence()
	p.Add(newFakeConn("a"))
	p.Add(newFakeConn("b"))

	if err := p.Bind("ghost", Binding{SessionID: "s1", Seat: match.SeatX}); !errors.Is(err, errConnectionClosed) {
		t.Fatalf("bind of unknown connection err = %v", err)
	}
	if err := p.Bind("a", Binding{SessionID: "s1", Seat: match.SeatX}); err != nil {
		t.Fatal(err)
	}
	if err := p.Bind("b", Binding{SessionID: "s1", Seat: match.SeatO}); err != nil {
		t.Fatal(err)
	}

	// uma conexão nunca fica em duas sessões
	err := p.Bind("a", Binding{SessionID: "s2", Seat: match.SeatX})
	if match.CodeOf(err) != match.CodeBadRequest {
		t.Fatalf("bind to second session err = %v", err)
	}
	if b, _ := p.Lookup("a"); b.SessionID != "s1" {
		t.Fatalf("binding = %+v", b)
	}

	if got, ok := p.Remove("b"); !ok || got.Seat != match.SeatO {
		t.Fatalf("Remove = %+v, %v", got, ok)
	}
	if _, ok := p.Conn("b"); ok {
		t.Fatal("removed connection still reachable")
	}
	if p.Len() != 1 {
		t.Fatalf("Len = %d", p.Len())
	}
}

func TestPresenceClaim(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(p *Presence)
		session   string
		wantFresh bool
		wantSeat  match.SeatID
		wantErr   bool
	}{
		{
			name:      "free connection",
			setup:     func(p *Presence) {},
			session:   "s1",
			wantFresh: true,
		},
		{
			name:     "already seated in the same session",
			setup:    func(p *Presence) { p.Bind("a", Binding{SessionID: "s1", Seat: match.SeatO}) },
			session:  "s1",
			wantSeat: match.SeatO,
		},
		{
			name:    "seated elsewhere",
			setup:   func(p *Presence) { p.Bind("a", Binding{SessionID: "s2", Seat: match.SeatX}) },
			session: "s1",
			wantErr: true,
		},
		{
			name:    "closed connection",
			setup:   func(p *Presence) { p.Remove("a") },
			session: "s1",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPresence()
			p.Add(newFakeConn("a"))
			tt.setup(p)

			prev, fresh, err := p.Claim("a", tt.session)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if fresh != tt.wantFresh || prev.Seat != tt.wantSeat {
				t.Fatalf("prev = %+v fresh = %v", prev, fresh)
			}
		})
	}
}

func TestPresenceForgetKeepsConnections(t *testing.T) {
	p := NewPresence()
	p.Add(newFakeConn("a"))
	p.Bind("a", Binding{SessionID: "s1", Seat: match.SeatX})

	p.Forget("s1")
	if _, ok := p.Lookup("a"); ok {
		t.Fatal("binding survived Forget")
	}
	if _, ok := p.Conn("a"); !ok {
		t.Fatal("connection dropped by Forget")
	}
}
