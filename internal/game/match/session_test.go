package match

import (
	"errors"
	"testing"
	"time"
)

const ballistaCatalog = `[{"key":"ballista","name":"Ballista","cost":4,"effect":{"id":"damage","amount":1,"target":"opponent"}}]`

func TestEndToEndScenario(t *testing.T) {
	s := newTestSession(t, ballistaCatalog)

	seat, _, err := s.Join("conn-x", t0)
	if err != nil || seat != SeatX {
		t.Fatalf("first join = %v, %v; want X", seat, err)
	}
	if s.State != StateWaiting {
		t.Fatalf("state after first join = %s", s.State)
	}
	seat, _, err = s.Join("conn-o", t0)
	if err != nil || seat != SeatO {
		t.Fatalf("second join = %v, %v; want O", seat, err)
	}
	if s.State != StateOngoing || s.CurrentTurn != SeatX {
		t.Fatalf("state=%s turn=%s, want ongoing/X", s.State, s.CurrentTurn)
	}
	for _, st := range s.Seats {
		if got := st.Zones.Deck().Len(); got != 30 {
			t.Fatalf("seat %s deck = %d, want 30", st.ID, got)
		}
	}
	x, o := mustSeat(t, s, SeatX), mustSeat(t, s, SeatO)

	now := t0.Add(time.Second)
	res, err := s.Draw(SeatX, now)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if x.DrawsLeft != 0 || x.Zones.Hand().Len() != 1 || x.Zones.Deck().Len() != 29 {
		t.Fatalf("after draw: draws=%d hand=%d deck=%d", x.DrawsLeft, x.Zones.Hand().Len(), x.Zones.Deck().Len())
	}
	if len(res.Notices) != 1 || res.Notices[0].Reaches(SeatX) || !res.Notices[0].Reaches(SeatO) {
		t.Fatalf("draw notice should reach only the opponent: %+v", res.Notices)
	}
	assertIntegrity(t, s)

	if _, err := s.Draw(SeatX, now); !errors.Is(err, ErrNoDrawsLeft) || CodeOf(err) != CodeOutOfResource {
		t.Fatalf("second draw err = %v, want OutOfResource/draws", err)
	}

	ballista := x.Zones.Hand().Entities()[0]
	version := s.Version
	if _, err := s.Play(SeatX, ballista.ID, now); !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("play err = %v, want insufficient resources", err)
	}
	if x.Zones.Hand().Len() != 1 || x.Zones.Battlefield().Len() != 0 || x.Resources != 3 || s.Version != version {
		t.Fatal("rejected play must not change state")
	}

	x.Resources = 4
	if _, err := s.Play(SeatX, ballista.ID, now); err != nil {
		t.Fatalf("play: %v", err)
	}
	if x.Zones.Battlefield().Len() != 1 || x.Resources != 0 || o.Wall != 4 {
		t.Fatalf("after play: battlefield=%d resources=%d opponent wall=%d", x.Zones.Battlefield().Len(), x.Resources, o.Wall)
	}

	o.DrawsLeft, o.DiscardsLeft = 0, 0
	if _, err := s.Yield(SeatX, now.Add(time.Second)); err != nil {
		t.Fatalf("yield: %v", err)
	}
	if x.Zones.Battlefield().Len() != 0 || x.Zones.Graveyard().Len() != 1 {
		t.Fatalf("battlefield not cleared: battlefield=%d graveyard=%d", x.Zones.Battlefield().Len(), x.Zones.Graveyard().Len())
	}
	if s.TurnNumber != 2 || s.CurrentTurn != SeatO {
		t.Fatalf("turn=%d current=%s, want 2/O", s.TurnNumber, s.CurrentTurn)
	}
	if o.Resources != 3+2 || o.DrawsLeft != 1 || o.DiscardsLeft != 1 {
		t.Fatalf("opponent credit: resources=%d draws=%d discards=%d", o.Resources, o.DrawsLeft, o.DiscardsLeft)
	}
	assertIntegrity(t, s)
}

func TestJoinFullSessionFails(t *testing.T) {
	s := startedSession(t, wallCatalog)
	version := s.Version

	if _, _, err := s.Join("conn-3", t0); !errors.Is(err, ErrSessionFull) {
		t.Fatalf("third join err = %v, want SessionFull", err)
	}
	if len(s.Seats) != 2 || s.Version != version {
		t.Fatal("rejected join mutated the session")
	}

	// depois do fim da partida a sessão continua cheia
	if _, err := s.Resign(SeatX, t0); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Join("conn-4", t0); !errors.Is(err, ErrSessionFull) {
		t.Fatalf("join after resign err = %v, want SessionFull", err)
	}
}

func TestJoinSameConnectionTwice(t *testing.T) {
	s := newTestSession(t, wallCatalog)
	if _, _, err := s.Join("conn-x", t0); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Join("conn-x", t0); CodeOf(err) != CodeBadRequest {
		t.Fatalf("err = %v, want BadRequest", err)
	}
}

func TestDrawPreconditionOrder(t *testing.T) {
	tests := []struct {
		name  string
		seat  SeatID
		setup func(t *testing.T, s *Session)
		want  error
	}{
		{
			name:  "not started",
			seat:  SeatX,
			setup: func(t *testing.T, s *Session) { s.Seats = s.Seats[:1]; s.State = StateWaiting },
			want:  ErrNotStarted,
		},
		{
			name:  "game over beats everything",
			seat:  SeatO,
			setup: func(t *testing.T, s *Session) { s.State = WinsFor(SeatX) },
			want:  ErrGameOver,
		},
		{
			name: "not your turn",
			seat: SeatO,
			want: ErrNotYourTurn,
		},
		{
			name: "no draws left before empty deck",
			seat: SeatX,
			setup: func(t *testing.T, s *Session) {
				x := mustSeat(t, s, SeatX)
				x.DrawsLeft = 0
				x.Zones.MoveAll("deck", "graveyard")
			},
			want: ErrNoDrawsLeft,
		},
		{
			name: "empty deck before full hand",
			seat: SeatX,
			setup: func(t *testing.T, s *Session) {
				x := mustSeat(t, s, SeatX)
				for i := 0; i < 5; i++ {
					x.Zones.DrawToHand()
				}
				x.Zones.MoveAll("deck", "graveyard")
			},
			want: ErrDeckEmpty,
		},
		{
			name: "hand full",
			seat: SeatX,
			setup: func(t *testing.T, s *Session) {
				x := mustSeat(t, s, SeatX)
				for i := 0; i < 5; i++ {
					x.Zones.DrawToHand()
				}
			},
			want: ErrHandFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := startedSession(t, wallCatalog)
			if tt.setup != nil {
				tt.setup(t, s)
			}
			version := s.Version
			_, err := s.Draw(tt.seat, t0)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if s.Version != version {
				t.Fatal("rejected draw bumped the version")
			}
		})
	}
}

func TestOutOfResourceKindsAreDistinguishable(t *testing.T) {
	kinds := []*Error{ErrNoDrawsLeft, ErrNoDiscardsLeft, ErrHandFull, ErrDeckEmpty, ErrInsufficientResources}
	for i, a := range kinds {
		if !errors.Is(a, ErrOutOfResource) {
			t.Errorf("%s is not an OutOfResource", a.Resource)
		}
		for j, b := range kinds {
			if i != j && errors.Is(a, b) {
				t.Errorf("%s matches %s", a.Resource, b.Resource)
			}
		}
	}
}

func TestDrawDecrementsOncePerTurn(t *testing.T) {
	s := startedSession(t, wallCatalog)
	x := mustSeat(t, s, SeatX)

	drawOne(t, s, SeatX, t0)
	if x.DrawsLeft != 0 {
		t.Fatalf("draws left = %d, want 0", x.DrawsLeft)
	}
	if x.Zones.Deck().Len() == 0 {
		t.Fatal("deck should still have cards")
	}
	if _, err := s.Draw(SeatX, t0); !errors.Is(err, ErrNoDrawsLeft) {
		t.Fatalf("err = %v", err)
	}
}

func TestPlayAppliesEffectInSameTransition(t *testing.T) {
	s := startedSession(t, wallCatalog)
	x := mustSeat(t, s, SeatX)
	e := drawOne(t, s, SeatX, t0)

	res, err := s.Play(SeatX, e.ID, t0)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if x.Wall != 5+2 || x.Resources != 3-1 {
		t.Fatalf("wall=%d resources=%d", x.Wall, x.Resources)
	}
	if zone, _ := x.Zones.Locate(e.ID); zone != "battlefield" {
		t.Fatalf("entity in %q, want battlefield", zone)
	}
	if !hasNotice(res, "Opponent played card Brick Wall") {
		t.Fatalf("notices = %+v", res.Notices)
	}
	assertIntegrity(t, s)
}

func TestPlayUnknownEntity(t *testing.T) {
	s := startedSession(t, wallCatalog)
	_, err := s.Play(SeatX, "not-in-hand", t0)
	if !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("err = %v, want EntityNotFound", err)
	}
}

func TestDiscard(t *testing.T) {
	s := startedSession(t, wallCatalog)
	x := mustSeat(t, s, SeatX)
	e := drawOne(t, s, SeatX, t0)

	res, err := s.Discard(SeatX, e.ID, t0)
	if err != nil {
		t.Fatalf("discard: %v", err)
	}
	if x.DiscardsLeft != 0 || x.Zones.Graveyard().Len() != 1 || x.Zones.Hand().Len() != 0 {
		t.Fatalf("discards=%d graveyard=%d hand=%d", x.DiscardsLeft, x.Zones.Graveyard().Len(), x.Zones.Hand().Len())
	}
	if !hasNotice(res, "Opponent discarded card Brick Wall") {
		t.Fatalf("notices = %+v", res.Notices)
	}

	x.Zones.DrawToHand()
	other := x.Zones.Hand().Entities()[0]
	if _, err := s.Discard(SeatX, other.ID, t0); !errors.Is(err, ErrNoDiscardsLeft) {
		t.Fatalf("err = %v, want no discards left", err)
	}
	assertIntegrity(t, s)
}

func TestYieldShapeIsStable(t *testing.T) {
	s := startedSession(t, wallCatalog)
	x, o := mustSeat(t, s, SeatX), mustSeat(t, s, SeatO)
	o.Resources = 0

	// campo vazio e recursos zerados: o formato do yield não muda
	for i, seat := range []SeatID{SeatX, SeatO, SeatX} {
		if _, err := s.Yield(seat, t0); err != nil {
			t.Fatalf("yield %d: %v", i, err)
		}
		if s.TurnNumber != i+2 {
			t.Fatalf("turn = %d, want %d", s.TurnNumber, i+2)
		}
		if s.CurrentTurn != Opponent(seat) {
			t.Fatalf("current = %s", s.CurrentTurn)
		}
	}
	if o.Resources != 2+2 {
		t.Fatalf("O resources = %d, want 4", o.Resources)
	}
	if x.Resources != 3+2 {
		t.Fatalf("X resources = %d, want 5", x.Resources)
	}
	if x.Zones.Battlefield().Len() != 0 || o.Zones.Battlefield().Len() != 0 {
		t.Fatal("battlefields should be empty")
	}
}

func TestWinningPlayEndsGame(t *testing.T) {
	s := startedSession(t, ballistaCatalog)
	x, o := mustSeat(t, s, SeatX), mustSeat(t, s, SeatO)
	o.Wall, o.Tower = 0, 1
	x.Resources = 4
	e := drawOne(t, s, SeatX, t0)

	res, err := s.Play(SeatX, e.ID, t0)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if s.State != WinsFor(SeatX) || !res.Ended || s.EndedAt.IsZero() {
		t.Fatalf("state=%s ended=%v", s.State, res.Ended)
	}
	if _, err := s.Yield(SeatX, t0); !errors.Is(err, ErrGameOver) {
		t.Fatalf("yield after end err = %v", err)
	}
}

func TestResign(t *testing.T) {
	t.Run("while waiting", func(t *testing.T) {
		s := newTestSession(t, wallCatalog)
		s.Join("conn-x", t0)
		res, err := s.Resign(SeatX, t0)
		if err != nil {
			t.Fatal(err)
		}
		if s.State != WinsFor(SeatO) || !hasNotice(res, "X resigned, O wins!") {
			t.Fatalf("state=%s notices=%+v", s.State, res.Notices)
		}
	})
	t.Run("out of turn", func(t *testing.T) {
		s := startedSession(t, wallCatalog)
		if _, err := s.Resign(SeatO, t0); err != nil {
			t.Fatal(err)
		}
		if s.State != WinsFor(SeatX) {
			t.Fatalf("state = %s", s.State)
		}
	})
	t.Run("already terminal", func(t *testing.T) {
		s := startedSession(t, wallCatalog)
		s.Resign(SeatO, t0)
		if _, err := s.Resign(SeatX, t0); !errors.Is(err, ErrGameOver) {
			t.Fatalf("err = %v", err)
		}
		if s.State != WinsFor(SeatX) {
			t.Fatal("second resign flipped the winner")
		}
	})
}

func TestMovesSpendTurnTime(t *testing.T) {
	s := startedSession(t, wallCatalog)
	x := mustSeat(t, s, SeatX)

	drawOne(t, s, SeatX, t0.Add(30*time.Second))
	if want := 10*time.Minute - 30*time.Second; x.TimeLeft != want {
		t.Fatalf("time left = %v, want %v", x.TimeLeft, want)
	}
	if !s.LastActivity.Equal(t0.Add(30 * time.Second)) {
		t.Fatalf("last activity = %v", s.LastActivity)
	}
}
