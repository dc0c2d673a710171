package gameroom

import (
	"castle/internal/game/match"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrRoomClosed é retornado para pedidos feitos a uma sala já encerrada.
var ErrRoomClosed = errors.New("room closed")

// Status é o resumo da sala lido sem passar pela goroutine dela.
type Status struct {
	State        match.Lifecycle
	Connected    int
	LastActivity time.Time
	EndedAt      time.Time
	Version      uint64
}

// operation é um pedido na caixa de entrada; done (opcional) fecha depois
// que o status foi publicado.
type operation struct {
	fn   func(*match.Session)
	done chan struct{}
}

// Room é o ponto único de serialização de uma sessão: só a goroutine da sala
// toca em session. Tudo chega pelo canal incoming.
type Room struct {
	ID       string
	session  *match.Session
	incoming chan operation
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	status   atomic.Value
	logger   *zap.Logger
}

func newRoom(s *match.Session, mailbox int, logger *zap.Logger) *Room {
	r := &Room{
		ID:       s.ID,
		session:  s,
		incoming: make(chan operation, mailbox),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.With(zap.String("session_id", s.ID)),
	}
	r.publishStatus()
	return r
}

// Run é o loop da sala. Termina com Stop.
func (r *Room) Run() {
	r.logger.Debug("[Room] goroutine started")
	defer func() {
		close(r.done)
		r.logger.Debug("[Room] goroutine stopped")
	}()

	for {
		select {
		case op := <-r.incoming:
			r.apply(op)
		case <-r.quit:
			return
		}
	}
}

func (r *Room) apply(op operation) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("[Room] operation panicked", zap.Any("panic", rec))
		}
		r.publishStatus()
		if op.done != nil {
			close(op.done)
		}
	}()
	op.fn(r.session)
}

func (r *Room) publishStatus() {
	s := r.session
	r.status.Store(Status{
		State:        s.State,
		Connected:    len(s.Connections()),
		LastActivity: s.LastActivity,
		EndedAt:      s.EndedAt,
		Version:      s.Version,
	})
}

// Do executa fn na goroutine da sala e espera terminar.
// fn não deve guardar referência à sessão.
func (r *Room) Do(ctx context.Context, fn func(*match.Session)) error {
	op := operation{fn: fn, done: make(chan struct{})}

	select {
	case r.incoming <- op:
	case <-r.quit:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-op.done:
		return nil
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit enfileira fn sem esperar. Retorna false se a sala estiver fechada
// ou com a caixa de entrada cheia.
func (r *Room) Submit(fn func(*match.Session)) bool {
	select {
	case <-r.quit:
		return false
	default:
	}
	select {
	case r.incoming <- operation{fn: fn}:
		return true
	default:
		r.logger.Warn("[Room] mailbox full, operation discarded")
		return false
	}
}

func (r *Room) Status() Status {
	return r.status.Load().(Status)
}

// Stop encerra a goroutine. Pode ser chamado mais de uma vez.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// Done fecha quando a goroutine da sala terminou.
func (r *Room) Done() <-chan struct{} {
	return r.done
}
