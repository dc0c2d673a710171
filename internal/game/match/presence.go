package match

import (
	"fmt"
	"time"
)

// Disconnect solta a conexão do assento. Não mexe em ciclo de vida, zonas ou turno.
func (s *Session) Disconnect(connID string, now time.Time) (SeatID, *Result, bool) {
	st, ok := s.SeatByConnection(connID)
	if !ok {
		return "", nil, false
	}
	st.ConnectionID = ""
	st.DisconnectedAt = now
	s.Version++

	res := newResult("disconnect", st.ID)
	res.notifyOthers(st.ID, fmt.Sprintf("%s disconnected, waiting for reconnect.", st.ID))
	return st.ID, res, true
}

// Reconnect religa o assento a uma nova conexão e devolve a anterior (se houver).
// Vale também para partidas encerradas, para o jogador ver o placar final.
func (s *Session) Reconnect(id SeatID, connID string, now time.Time) (string, *Result, error) {
	st := s.seat(id)
	if st == nil {
		return "", nil, ErrNotAPlayer
	}
	if other, ok := s.SeatByConnection(connID); ok && other.ID != id {
		return "", nil, Errorf(ErrBadRequest, "Connection already holds seat %s", other.ID)
	}
	previous := st.ConnectionID
	st.ConnectionID = connID
	st.DisconnectedAt = time.Time{}
	s.Version++

	res := newResult("reconnect", id)
	res.notifyOthers(id, fmt.Sprintf("%s reconnected", id))
	return previous, res, nil
}

// CheckTime é uma checagem por polling: não há timer no servidor.
// Só tem efeito numa sessão em andamento, então repetir a chamada após o fim é inofensivo.
func (s *Session) CheckTime(now time.Time) (*Result, bool) {
	if s.State != StateOngoing {
		return nil, false
	}

	if cur := s.seat(s.CurrentTurn); cur != nil && now.Sub(s.LastActivity) >= cur.TimeLeft {
		cur.TimeLeft = 0
		winner := Opponent(cur.ID)
		res := s.end(WinsFor(winner), now, "checkTime", cur.ID)
		res.notifyAll(fmt.Sprintf("%s ran out of time, %s wins!", cur.ID, winner))
		return res, true
	}

	if s.rules.ReconnectGrace <= 0 {
		return nil, false
	}
	var expired []*Seat
	for _, st := range s.Seats {
		if !st.Connected() && !st.DisconnectedAt.IsZero() && now.Sub(st.DisconnectedAt) >= s.rules.ReconnectGrace {
			expired = append(expired, st)
		}
	}
	switch len(expired) {
	case 0:
		return nil, false
	case 1:
		loser := expired[0].ID
		winner := Opponent(loser)
		res := s.end(WinsFor(winner), now, "checkTime", loser)
		res.notifyAll(fmt.Sprintf("%s did not reconnect in time, %s wins!", loser, winner))
		return res, true
	default:
		res := s.end(StateDraw, now, "checkTime", "")
		res.notifyAll("Both players left, the game is a draw")
		return res, true
	}
}

func (s *Session) end(state Lifecycle, now time.Time, move string, actor SeatID) *Result {
	s.State = state
	s.EndedAt = now
	s.LastActivity = now
	s.Version++
	res := newResult(move, actor)
	res.Ended = true
	return res
}
