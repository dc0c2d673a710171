package match

import (
	"castle/internal/game/deck"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Join ocupa o primeiro assento livre (X, depois O) e distribui o baralho.
func (s *Session) Join(connID string, now time.Time) (SeatID, *Result, error) {
	if len(s.Seats) >= 2 {
		return "", nil, ErrSessionFull
	}
	if s.State.IsTerminal() {
		return "", nil, ErrGameOver
	}
	if _, ok := s.SeatByConnection(connID); ok {
		return "", nil, Errorf(ErrBadRequest, "Connection already holds a seat in this game")
	}

	id := SeatX
	if len(s.Seats) == 1 {
		id = SeatO
	}
	st := s.newSeat(id, connID)
	s.Seats = append(s.Seats, st)

	res := newResult("join", id)
	res.notifyOthers(id, fmt.Sprintf("Player %s joined", id))
	if len(s.Seats) == 2 {
		s.State = StateOngoing
		s.CurrentTurn = SeatX
		res.notifyAll(fmt.Sprintf("Game started, %s plays first", SeatX))
	}
	s.LastActivity = now
	s.Version++

	s.logger.Debug("[Match] seat joined", zap.String("seat", string(id)), zap.Int("deck", st.Zones.Deck().Len()))
	return id, res, nil
}

func (s *Session) newSeat(id SeatID, connID string) *Seat {
	st := &Seat{
		ID:           id,
		ConnectionID: connID,
		Tower:        s.rules.StartingTower,
		Wall:         s.rules.StartingWall,
		Generators:   s.rules.StartingGenerators,
		Resources:    s.rules.StartingResources,
		DrawsLeft:    1,
		DiscardsLeft: 1,
		TimeLeft:     s.rules.TurnTimeBudget,
		Zones:        deck.NewZones(),
	}
	if s.catalog != nil {
		for _, e := range s.catalog.GenerateDeck(s.rng, s.rules.DeckSize) {
			st.Zones.Deck().Push(e)
		}
	}
	st.Zones.Deck().Shuffle(s.rng)
	return st
}

// requireTurn aplica as pré-condições comuns: partida em andamento e vez do assento.
func (s *Session) requireTurn(id SeatID) (*Seat, error) {
	switch s.State {
	case StateOngoing:
	case StateWaiting:
		return nil, ErrNotStarted
	default:
		return nil, ErrGameOver
	}
	st := s.seat(id)
	if st == nil {
		return nil, ErrNotAPlayer
	}
	if s.CurrentTurn != id {
		return nil, ErrNotYourTurn
	}
	return st, nil
}

// Draw compra a carta do topo do baralho.
func (s *Session) Draw(id SeatID, now time.Time) (*Result, error) {
	st, err := s.requireTurn(id)
	if err != nil {
		return nil, err
	}
	if st.DrawsLeft <= 0 {
		return nil, ErrNoDrawsLeft
	}
	if st.Zones.Deck().Len() == 0 {
		return nil, ErrDeckEmpty
	}
	if st.Zones.Hand().Len() >= s.rules.HandLimit {
		return nil, ErrHandFull
	}

	if _, err := st.Zones.DrawToHand(); err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}
	st.DrawsLeft--

	res := newResult("draw", id)
	res.notifyOthers(id, "Opponent drew a card")
	s.commit(st, now, res)
	return res, nil
}

// Play paga o custo, leva a carta ao campo e executa o efeito na mesma transição.
func (s *Session) Play(id SeatID, entityID string, now time.Time) (*Result, error) {
	st, err := s.requireTurn(id)
	if err != nil {
		return nil, err
	}
	e, ok := st.Zones.Hand().Get(entityID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}
	if e.Cost() > st.Resources {
		return nil, Errorf(ErrInsufficientResources, "Card %s costs %d and you only have %d resources", e.Name(), e.Cost(), st.Resources)
	}

	if _, err := st.Zones.Move(entityID, deck.HAND, deck.BATTLEFIELD); err != nil {
		return nil, fmt.Errorf("play: %w", err)
	}
	st.Resources -= e.Cost()

	res := newResult("play", id)
	res.notifyOthers(id, fmt.Sprintf("Opponent played card %s", e.Name()))
	s.invoke(e.Card.Effect(), id, e.Name(), res)
	s.commit(st, now, res)
	return res, nil
}

// Discard descarta uma carta da mão no cemitério.
func (s *Session) Discard(id SeatID, entityID string, now time.Time) (*Result, error) {
	st, err := s.requireTurn(id)
	if err != nil {
		return nil, err
	}
	if st.DiscardsLeft <= 0 {
		return nil, ErrNoDiscardsLeft
	}
	e, err := st.Zones.Move(entityID, deck.HAND, deck.GRAVEYARD)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityID)
	}
	st.DiscardsLeft--

	res := newResult("discard", id)
	res.notifyOthers(id, fmt.Sprintf("Opponent discarded card %s", e.Name()))
	s.commit(st, now, res)
	return res, nil
}

// Yield encerra o turno. Tudo acontece numa única transição.
func (s *Session) Yield(id SeatID, now time.Time) (*Result, error) {
	st, err := s.requireTurn(id)
	if err != nil {
		return nil, err
	}
	s.spendTime(st, now)

	if _, err := st.Zones.MoveAll(deck.BATTLEFIELD, deck.GRAVEYARD); err != nil {
		return nil, fmt.Errorf("yield: %w", err)
	}
	s.TurnNumber++

	next := Opponent(id)
	if other := s.seat(next); other != nil {
		other.Resources += other.Generators
		other.DrawsLeft = 1
		other.DiscardsLeft = 1
	}
	s.CurrentTurn = next

	res := newResult("yield", id)
	res.notifyOthers(id, "Opponent has yielded their turn")
	s.runDelayed(res)
	s.finish(now, res)
	return res, nil
}

// Resign encerra a partida a favor do outro assento, em qualquer estado não terminal.
func (s *Session) Resign(id SeatID, now time.Time) (*Result, error) {
	if s.State.IsTerminal() {
		return nil, ErrGameOver
	}
	if s.seat(id) == nil {
		return nil, ErrNotAPlayer
	}
	winner := Opponent(id)
	s.State = WinsFor(winner)
	s.EndedAt = now
	s.LastActivity = now
	s.Version++

	res := newResult("resign", id)
	res.notifyAll(fmt.Sprintf("%s resigned, %s wins!", id, winner))
	res.Ended = true
	return res, nil
}

// spendTime desconta do relógio do assento o tempo desde a última atividade.
func (s *Session) spendTime(st *Seat, now time.Time) {
	if elapsed := now.Sub(s.LastActivity); elapsed > 0 {
		st.TimeLeft = max(0, st.TimeLeft-elapsed)
	}
}

// commit fecha uma jogada do assento da vez.
func (s *Session) commit(st *Seat, now time.Time, res *Result) {
	s.spendTime(st, now)
	s.finish(now, res)
}

func (s *Session) finish(now time.Time, res *Result) {
	s.LastActivity = now
	s.Version++

	next := Outcome(s.Seats, s.State)
	if next != s.State {
		s.State = next
		s.EndedAt = now
		res.Ended = true
		res.notifyAll(s.gameOverText())
		s.logger.Info("[Match] game over", zap.String("state", string(next)), zap.Int("turn", s.TurnNumber))
	}
}
