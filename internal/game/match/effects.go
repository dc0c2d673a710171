package match

import (
	"castle/internal/game/card"
	"fmt"

	"go.uber.org/zap"
)

// EffectFunc aplica um efeito do catálogo. actor é o assento que disparou o efeito;
// source é o nome da carta, usado em notificações.
type EffectFunc func(s *Session, actor SeatID, e card.Effect, source string, res *Result) error

var effectHandlers = map[string]EffectFunc{
	card.EffectBuildWall:         onTarget(func(st *Seat, n int) { st.addWall(n) }),
	card.EffectBuildTower:        onTarget(func(st *Seat, n int) { st.addTower(n) }),
	card.EffectDamage:            onTarget(func(st *Seat, n int) { st.takeDamage(n) }),
	card.EffectDamageTower:       onTarget(func(st *Seat, n int) { st.addTower(-n) }),
	card.EffectAddGenerator:      onTarget(func(st *Seat, n int) { st.addGenerators(n) }),
	card.EffectSabotageGenerator: onTarget(func(st *Seat, n int) { st.addGenerators(-n) }),
	card.EffectGainResources:     onTarget(func(st *Seat, n int) { st.addResources(n) }),
	card.EffectDelayed:           scheduleEffect,
	card.EffectLua:               runLuaEffect,
}

// onTarget adapta um ajuste simples de contador para EffectFunc.
func onTarget(apply func(st *Seat, n int)) EffectFunc {
	return func(s *Session, actor SeatID, e card.Effect, _ string, _ *Result) error {
		st := s.resolveTarget(actor, e.Target)
		if st == nil {
			return fmt.Errorf("target %q of %s has no seat", e.Target, actor)
		}
		apply(st, e.Amount)
		return nil
	}
}

func scheduleEffect(s *Session, actor SeatID, e card.Effect, source string, res *Result) error {
	if e.Then == nil {
		return fmt.Errorf("delayed effect without payload")
	}
	turn := s.schedule(actor, e.Delay, source, *e.Then)
	res.notifyAll(fmt.Sprintf("%s's %s will strike on turn %d", actor, source, turn))
	return nil
}

func runLuaEffect(s *Session, actor SeatID, e card.Effect, source string, res *Result) error {
	return s.runLua(actor, source, e.Script, res)
}

func (s *Session) resolveTarget(actor SeatID, target string) *Seat {
	if target == card.TargetOpponent {
		return s.seat(Opponent(actor))
	}
	return s.seat(actor)
}

func (s *Session) schedule(owner SeatID, delay int, source string, e card.Effect) int {
	turn := s.TurnNumber + delay
	s.Delayed = append(s.Delayed, DelayedEffect{Turn: turn, Owner: owner, Source: source, Effect: e})
	return turn
}

// invoke roda um efeito dentro de uma fronteira de falha: erro ou panic do efeito
// é registrado e vira notificação, sem desfazer o que o efeito já aplicou.
func (s *Session) invoke(e card.Effect, actor SeatID, source string, res *Result) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("[Match] effect panicked",
				zap.String("effect", e.ID), zap.String("source", source), zap.Any("panic", r))
			res.notifyAll(fmt.Sprintf("Effect of %s failed", source))
		}
	}()

	handler, ok := effectHandlers[e.ID]
	if !ok {
		s.logger.Warn("[Match] unknown effect", zap.String("effect", e.ID), zap.String("source", source))
		res.notifyAll(fmt.Sprintf("Effect of %s failed", source))
		return
	}
	if err := handler(s, actor, e, source, res); err != nil {
		s.logger.Warn("[Match] effect failed",
			zap.String("effect", e.ID), zap.String("source", source), zap.Error(err))
		res.notifyAll(fmt.Sprintf("Effect of %s failed", source))
	}
}

// runDelayed dispara os efeitos do turno atual e descarta todos os vencidos.
// Efeitos agendados pelos próprios disparos entram na lista já podada.
func (s *Session) runDelayed(res *Result) {
	var due, pending []DelayedEffect
	for _, d := range s.Delayed {
		switch {
		case d.Turn == s.TurnNumber:
			due = append(due, d)
		case d.Turn > s.TurnNumber:
			pending = append(pending, d)
		}
	}
	s.Delayed = pending
	for _, d := range due {
		res.notifyAll(fmt.Sprintf("%s's %s takes effect", d.Owner, d.Source))
		s.invoke(d.Effect, s.CurrentTurn, d.Source, res)
	}
}
