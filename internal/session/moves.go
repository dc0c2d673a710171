package session

import (
	"castle/internal/game/match"
	"time"
)

// MoveFunc aplica um tipo de jogada na sessão, já na goroutine da sala.
type MoveFunc func(s *match.Session, seat match.SeatID, d moveDetails, now time.Time) (*match.Result, error)

// registerMoveHandlers popula o roteador de jogadas (move.type).
func (h *GameHandler) registerMoveHandlers() {
	h.moveRouter["draw"] = moveDraw
	h.moveRouter["yield"] = moveYield
	h.moveRouter["play"] = movePlay
	h.moveRouter["discard"] = moveDiscard
}

func moveDraw(s *match.Session, seat match.SeatID, _ moveDetails, now time.Time) (*match.Result, error) {
	return s.Draw(seat, now)
}

func moveYield(s *match.Session, seat match.SeatID, _ moveDetails, now time.Time) (*match.Result, error) {
	return s.Yield(seat, now)
}

func movePlay(s *match.Session, seat match.SeatID, d moveDetails, now time.Time) (*match.Result, error) {
	if d.EntityID == "" {
		return nil, match.Errorf(match.ErrBadRequest, "Invalid payload: 'details.entityId' is required")
	}
	return s.Play(seat, d.EntityID, now)
}

func moveDiscard(s *match.Session, seat match.SeatID, d moveDetails, now time.Time) (*match.Result, error) {
	if d.EntityID == "" {
		return nil, match.Errorf(match.ErrBadRequest, "Invalid payload: 'details.entityId' is required")
	}
	return s.Discard(seat, d.EntityID, now)
}
