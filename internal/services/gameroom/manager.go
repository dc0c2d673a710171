package gameroom

import (
	"castle/internal/game/match"
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionFactory cria o estado inicial de uma sessão nova.
type SessionFactory func(id string, now time.Time) *match.Session

// Options configura o Registry. Zeros recebem os padrões.
type Options struct {
	IdleTTL       time.Duration
	FinishedTTL   time.Duration
	SweepInterval time.Duration
	Mailbox       int
	Clock         func() time.Time
	Logger        *zap.Logger
	// OnRemove é chamado (na goroutine do registry) para cada sala recolhida.
	OnRemove func(roomID string)
}

// Registry (o ator) é dono do mapa de salas. Criação e busca passam pela
// goroutine dele, então ninguém enxerga uma sala pela metade.
type Registry struct {
	rooms      map[string]*Room
	requestCh  chan interface{}
	newSession SessionFactory
	opts       Options
	logger     *zap.Logger
}

func NewRegistry(newSession SessionFactory, opts Options) *Registry {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	if opts.FinishedTTL <= 0 {
		opts.FinishedTTL = 5 * time.Minute
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	if opts.Mailbox <= 0 {
		opts.Mailbox = 64
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Registry{
		rooms:      make(map[string]*Room),
		requestCh:  make(chan interface{}),
		newSession: newSession,
		opts:       opts,
		logger:     opts.Logger.Named("registry"),
	}
}

// --- Mensagens para o ator ---
type createRequest struct {
	reply chan *Room
}
type getRequest struct {
	id    string
	reply chan *Room
}
type lenRequest struct {
	reply chan int
}
type sweepRequest struct {
	reply chan int
}

// --- API pública ---

// Create aloca uma sessão nova (waiting, sem assentos) com id único.
func (reg *Registry) Create(ctx context.Context) (*Room, error) {
	reply := make(chan *Room, 1)
	if err := reg.send(ctx, createRequest{reply: reply}); err != nil {
		return nil, err
	}
	return receive(ctx, reply)
}

// Get busca uma sala. Sala inexistente vira match.ErrSessionNotFound.
func (reg *Registry) Get(ctx context.Context, id string) (*Room, error) {
	reply := make(chan *Room, 1)
	if err := reg.send(ctx, getRequest{id: id, reply: reply}); err != nil {
		return nil, err
	}
	room, err := receive(ctx, reply)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, match.ErrSessionNotFound
	}
	return room, nil
}

func (reg *Registry) Len(ctx context.Context) (int, error) {
	reply := make(chan int, 1)
	if err := reg.send(ctx, lenRequest{reply: reply}); err != nil {
		return 0, err
	}
	return receive(ctx, reply)
}

// Sweep força uma varredura e devolve quantas salas foram recolhidas.
func (reg *Registry) Sweep(ctx context.Context) (int, error) {
	reply := make(chan int, 1)
	if err := reg.send(ctx, sweepRequest{reply: reply}); err != nil {
		return 0, err
	}
	return receive(ctx, reply)
}

func (reg *Registry) send(ctx context.Context, msg interface{}) error {
	select {
	case reg.requestCh <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func receive[T any](ctx context.Context, ch <-chan T) (T, error) {
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Run é o loop do ator. Ao cancelar ctx, todas as salas são paradas.
func (reg *Registry) Run(ctx context.Context) {
	reg.logger.Info("[Registry] actor started")
	ticker := time.NewTicker(reg.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-reg.requestCh:
			switch req := msg.(type) {
			case createRequest:
				req.reply <- reg.create()
			case getRequest:
				req.reply <- reg.rooms[req.id]
			case lenRequest:
				req.reply <- len(reg.rooms)
			case sweepRequest:
				req.reply <- reg.sweep()
			}

		case <-ticker.C:
			reg.sweep()

		case <-ctx.Done():
			for id, room := range reg.rooms {
				room.Stop()
				delete(reg.rooms, id)
			}
			reg.logger.Info("[Registry] actor stopped")
			return
		}
	}
}

func (reg *Registry) create() *Room {
	id := uuid.NewString()
	for reg.rooms[id] != nil {
		id = uuid.NewString()
	}
	room := newRoom(reg.newSession(id, reg.opts.Clock()), reg.opts.Mailbox, reg.opts.Logger.Named("room"))
	reg.rooms[id] = room
	go room.Run()
	reg.logger.Info("[Registry] session created", zap.String("session_id", id))
	return room
}

// sweep recolhe salas encerradas há mais de FinishedTTL e salas sem conexões
// e sem atividade há mais de IdleTTL.
func (reg *Registry) sweep() int {
	now := reg.opts.Clock()
	removed := 0
	for id, room := range reg.rooms {
		st := room.Status()
		finished := st.State.IsTerminal() && now.Sub(st.EndedAt) >= reg.opts.FinishedTTL
		idle := st.Connected == 0 && now.Sub(st.LastActivity) >= reg.opts.IdleTTL
		if !finished && !idle {
			continue
		}
		room.Stop()
		delete(reg.rooms, id)
		removed++
		if reg.opts.OnRemove != nil {
			reg.opts.OnRemove(id)
		}
		reg.logger.Info("[Registry] session reclaimed",
			zap.String("session_id", id), zap.String("state", string(st.State)), zap.Bool("idle", idle && !finished))
	}
	return removed
}
