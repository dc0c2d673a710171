package session

import (
	"castle/internal/game/match"
	"castle/internal/services/gameroom"
	"castle/internal/session/message"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// registerMatchHandlers popula o roteador com os comandos de partida.
func (h *GameHandler) registerMatchHandlers() {
	h.router[cmdCreate] = handleCreate
	h.router[cmdJoin] = handleJoin
	h.router[cmdRejoin] = handleRejoin
	h.router[cmdMove] = handleMove
	h.router[cmdResign] = handleResign
	h.router[cmdCheckTime] = handleCheckTime
}

// handleCreate abre uma sessão nova; quem pediu ainda precisa dar join.
func handleCreate(h *GameHandler, c message.MessageSender, _ json.RawMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	room, err := h.rooms.Create(ctx)
	if err != nil {
		h.logger.Error("[Session] failed to create session", zap.Error(err))
		message.SendError(c, match.Errorf(match.ErrBadRequest, "Could not create game, try again"))
		return
	}
	c.Send(message.SessionCreated(room.ID))
}

func handleJoin(h *GameHandler, c message.MessageSender, payload json.RawMessage) {
	var req sessionRequest
	if err := decode(payload, &req); err != nil {
		message.SendError(c, err)
		return
	}
	if req.SessionID == "" {
		message.SendError(c, match.Errorf(match.ErrBadRequest, "Invalid payload: 'sessionId' is required"))
		return
	}
	room, err := h.room(req.SessionID)
	if err != nil {
		message.SendError(c, err)
		return
	}

	h.submit(c, room, func(s *match.Session) {
		_, fresh, err := h.presence.Claim(c.ID(), s.ID)
		if err != nil {
			message.SendError(c, err)
			return
		}
		now := h.clock()
		seat, res, err := s.Join(c.ID(), now)
		if err != nil {
			h.release(c, fresh)
			message.SendError(c, err)
			return
		}
		h.seat(s, c, seat, res, now)
	})
}

func handleRejoin(h *GameHandler, c message.MessageSender, payload json.RawMessage) {
	var req rejoinRequest
	if err := decode(payload, &req); err != nil {
		message.SendError(c, err)
		return
	}
	sessionID, seat, err := h.tokens.Verify(req.Token)
	if err != nil || sessionID != req.SessionID {
		h.logger.Debug("[Session] rejected rejoin", zap.String("conn_id", c.ID()), zap.Error(err))
		message.SendError(c, match.Errorf(match.ErrNotAPlayer, "Invalid seat token"))
		return
	}
	room, err := h.room(req.SessionID)
	if err != nil {
		message.SendError(c, err)
		return
	}

	h.submit(c, room, func(s *match.Session) {
		prev, fresh, err := h.presence.Claim(c.ID(), s.ID)
		if err != nil {
			message.SendError(c, err)
			return
		}
		if prev.Seat != "" && prev.Seat != seat {
			message.SendError(c, match.Errorf(match.ErrBadRequest, "Already seated as %s", prev.Seat))
			return
		}
		now := h.clock()
		previous, res, err := s.Reconnect(seat, c.ID(), now)
		if err != nil {
			h.release(c, fresh)
			message.SendError(c, err)
			return
		}
		if previous != "" && previous != c.ID() {
			h.presence.Unbind(previous)
			if old, ok := h.presence.Conn(previous); ok {
				message.SendNotify(old, "Seat %s was taken over by another connection", seat)
			}
		}
		h.seat(s, c, seat, res, now)
	})
}

// release desfaz a reserva feita por Claim quando o assento não saiu.
func (h *GameHandler) release(c message.MessageSender, fresh bool) {
	if fresh {
		h.presence.Unbind(c.ID())
	}
}

// seat conclui join/rejoin: vincula, entrega o token e faz o broadcast.
// Roda na sala, depois de Claim, então o único erro possível de Bind é a
// conexão ter caído no meio do caminho.
func (h *GameHandler) seat(s *match.Session, c message.MessageSender, seat match.SeatID, res *match.Result, now time.Time) {
	if err := h.presence.Bind(c.ID(), Binding{SessionID: s.ID, Seat: seat}); err != nil {
		if _, dres, ok := s.Disconnect(c.ID(), now); ok {
			res.Notices = append(res.Notices, dres.Notices...)
		}
		h.dispatcher.Broadcast(s, res, now)
		return
	}

	token, err := h.tokens.Issue(s.ID, seat)
	if err != nil {
		h.logger.Warn("[Session] could not issue seat token", zap.String("session_id", s.ID), zap.Error(err))
	}
	c.Send(message.SeatAssigned(s.ID, seat, token, h.nodeID))
	h.dispatcher.Broadcast(s, res, now)
	h.logger.Info("[Session] seat bound",
		zap.String("session_id", s.ID), zap.String("seat", string(seat)), zap.String("conn_id", c.ID()))
}

func handleMove(h *GameHandler, c message.MessageSender, payload json.RawMessage) {
	var req moveRequest
	if err := decode(payload, &req); err != nil {
		message.SendError(c, err)
		return
	}
	b, room, err := h.seatedRoom(c, req.SessionID)
	if err != nil {
		message.SendError(c, err)
		return
	}
	move, found := h.moveRouter[req.Type]
	if !found {
		message.SendError(c, match.Errorf(match.ErrUnknownMove, "Unknown move %q", req.Type))
		return
	}

	h.submit(c, room, func(s *match.Session) {
		h.apply(s, c, b.Seat, func(now time.Time) (*match.Result, error) {
			return move(s, b.Seat, req.Details, now)
		})
	})
}

func handleResign(h *GameHandler, c message.MessageSender, payload json.RawMessage) {
	var req sessionRequest
	if err := decode(payload, &req); err != nil {
		message.SendError(c, err)
		return
	}
	b, room, err := h.seatedRoom(c, req.SessionID)
	if err != nil {
		message.SendError(c, err)
		return
	}

	h.submit(c, room, func(s *match.Session) {
		h.apply(s, c, b.Seat, func(now time.Time) (*match.Result, error) {
			return s.Resign(b.Seat, now)
		})
	})
}

// handleCheckTime pode ser chamado por qualquer conexão: é só um poll.
// Sem mudança, quem perguntou recebe o snapshot atual.
func handleCheckTime(h *GameHandler, c message.MessageSender, payload json.RawMessage) {
	var req sessionRequest
	if err := decode(payload, &req); err != nil {
		message.SendError(c, err)
		return
	}
	room, err := h.room(req.SessionID)
	if err != nil {
		message.SendError(c, err)
		return
	}

	h.submit(c, room, func(s *match.Session) {
		now := h.clock()
		if res, fired := s.CheckTime(now); fired {
			h.dispatcher.Broadcast(s, res, now)
			return
		}
		var viewer match.SeatID
		if st, ok := s.SeatByConnection(c.ID()); ok {
			viewer = st.ID
		}
		h.dispatcher.SendSnapshot(s, c, viewer)
	})
}

// seatedRoom resolve o assento pela presença (NotAPlayer) e depois a sala (SessionNotFound).
func (h *GameHandler) seatedRoom(c message.MessageSender, sessionID string) (Binding, *gameroom.Room, error) {
	b, ok := h.presence.Lookup(c.ID())
	if !ok || b.SessionID != sessionID || b.Seat == "" {
		return Binding{}, nil, match.ErrNotAPlayer
	}
	room, err := h.room(sessionID)
	if err != nil {
		return Binding{}, nil, err
	}
	return b, room, nil
}

// apply roda uma operação do assento na sala, conferindo antes que a conexão
// ainda é dona dele (pode ter sido tomado por um rejoin).
func (h *GameHandler) apply(s *match.Session, c message.MessageSender, seat match.SeatID, op func(now time.Time) (*match.Result, error)) {
	if st, ok := s.SeatByConnection(c.ID()); !ok || st.ID != seat {
		message.SendError(c, match.ErrNotAPlayer)
		return
	}
	now := h.clock()
	res, err := op(now)
	if err != nil {
		message.SendError(c, err)
		return
	}
	h.dispatcher.Broadcast(s, res, now)
}
