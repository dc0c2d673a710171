package match

import (
	"castle/internal/game/card"
	"math/rand/v2"
	"strings"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const wallCatalog = `[{"key":"brick_wall","name":"Brick Wall","cost":1,"effect":{"id":"build_wall","amount":2}}]`

func newTestSession(t *testing.T, catalogJSON string) *Session {
	t.Helper()
	cat, err := card.ParseCatalog([]byte(catalogJSON))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	return NewSession("test-session", Config{
		Rules:   DefaultRules(),
		Catalog: cat,
		Rand:    rand.New(rand.NewPCG(1, 2)),
	}, t0)
}

// startedSession devolve uma sessão com X e O sentados, vez de X.
func startedSession(t *testing.T, catalogJSON string) *Session {
	t.Helper()
	s := newTestSession(t, catalogJSON)
	for _, conn := range []string{"conn-x", "conn-o"} {
		if _, _, err := s.Join(conn, t0); err != nil {
			t.Fatalf("join %s: %v", conn, err)
		}
	}
	return s
}

func mustSeat(t *testing.T, s *Session, id SeatID) *Seat {
	t.Helper()
	st, ok := s.Seat(id)
	if !ok {
		t.Fatalf("seat %s missing", id)
	}
	return st
}

// drawOne compra uma carta e devolve a entidade que entrou na mão.
func drawOne(t *testing.T, s *Session, id SeatID, now time.Time) *card.Entity {
	t.Helper()
	if _, err := s.Draw(id, now); err != nil {
		t.Fatalf("draw: %v", err)
	}
	hand := mustSeat(t, s, id).Zones.Hand().Entities()
	return hand[len(hand)-1]
}

func assertIntegrity(t *testing.T, s *Session) {
	t.Helper()
	if err := s.CheckIntegrity(); err != nil {
		t.Fatalf("integrity: %v", err)
	}
}

func hasNotice(res *Result, substr string) bool {
	if res == nil {
		return false
	}
	for _, n := range res.Notices {
		if strings.Contains(n.Text, substr) {
			return true
		}
	}
	return false
}
