package session

import (
	"castle/internal/game/match"
	"castle/internal/game/view"
	"castle/internal/services/events"
	"castle/internal/session/message"
	"time"

	"go.uber.org/zap"
)

// Dispatcher entrega o resultado de uma mutação: snapshot mascarado para cada
// conexão ligada e notificações para o público certo. Roda na goroutine da sala,
// então a ordem por conexão segue a ordem das mutações.
type Dispatcher struct {
	presence *Presence
	events   events.Publisher
	logger   *zap.Logger
}

func NewDispatcher(presence *Presence, publisher events.Publisher, logger *zap.Logger) *Dispatcher {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Dispatcher{presence: presence, events: publisher, logger: logger.Named("dispatcher")}
}

// Broadcast deve ser chamado de dentro da sala, logo após a mutação.
func (d *Dispatcher) Broadcast(s *match.Session, res *match.Result, now time.Time) {
	type target struct {
		conn message.MessageSender
		seat match.SeatID
	}
	var targets []target
	for _, st := range s.Seats {
		if c, ok := d.presence.Conn(st.ConnectionID); ok {
			targets = append(targets, target{conn: c, seat: st.ID})
		}
	}

	for _, t := range targets {
		t.conn.Send(message.GameUpdated(view.Project(s, t.seat)))
	}
	if res != nil {
		for _, n := range res.Notices {
			for _, t := range targets {
				if n.Reaches(t.seat) {
					t.conn.Send(message.Notify(n.Text))
				}
			}
		}
	}

	d.publish(s, res, now)
}

// SendSnapshot manda o estado atual só para uma conexão.
func (d *Dispatcher) SendSnapshot(s *match.Session, conn message.MessageSender, seat match.SeatID) {
	conn.Send(message.GameUpdated(view.Project(s, seat)))
}

func (d *Dispatcher) publish(s *match.Session, res *match.Result, now time.Time) {
	e := events.Event{
		SessionID:  s.ID,
		Version:    s.Version,
		State:      string(s.State),
		TurnNumber: s.TurnNumber,
		At:         now,
	}
	if res != nil {
		e.Move = res.Move
		e.Actor = string(res.Actor)
		e.Ended = res.Ended
		for _, n := range res.Notices {
			e.Notices = append(e.Notices, events.Notice{Text: n.Text, Audience: audienceName(n.Audience), Seat: string(n.Seat)})
		}
	}
	if err := d.events.Publish(e); err != nil {
		d.logger.Warn("[Dispatcher] event mirror failed", zap.String("session_id", s.ID), zap.Error(err))
	}
}

func audienceName(a match.Audience) string {
	switch a {
	case match.AllExcept:
		return "allExcept"
	case match.OnlySeat:
		return "onlySeat"
	default:
		return "everyone"
	}
}
