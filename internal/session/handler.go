package session

import (
	"castle/internal/game/match"
	"castle/internal/network"
	"castle/internal/services/gameroom"
	"castle/internal/session/message"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Rooms é o que o handler precisa do registry.
type Rooms interface {
	Create(ctx context.Context) (*gameroom.Room, error)
	Get(ctx context.Context, id string) (*gameroom.Room, error)
}

// CommandHandlerFunc trata um tipo de mensagem de entrada.
type CommandHandlerFunc func(h *GameHandler, c message.MessageSender, payload json.RawMessage)

// HandlerConfig reúne as dependências do GameHandler.
type HandlerConfig struct {
	Rooms      Rooms
	Presence   *Presence
	Dispatcher *Dispatcher
	Tokens     *SeatTokens
	Clock      func() time.Time
	Logger     *zap.Logger
	// NodeID identifica este processo no Consul; vazio quando não há registro.
	NodeID string
}

// GameHandler implementa network.EventHandler: roteia as mensagens e entrega
// o trabalho às salas. Nunca bloqueia o Hub esperando uma sala.
type GameHandler struct {
	rooms      Rooms
	presence   *Presence
	dispatcher *Dispatcher
	tokens     *SeatTokens
	clock      func() time.Time
	logger     *zap.Logger
	nodeID     string

	router     map[string]CommandHandlerFunc
	moveRouter map[string]MoveFunc
}

const lookupTimeout = 2 * time.Second

func NewGameHandler(cfg HandlerConfig) *GameHandler {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	h := &GameHandler{
		rooms:      cfg.Rooms,
		presence:   cfg.Presence,
		dispatcher: cfg.Dispatcher,
		tokens:     cfg.Tokens,
		clock:      cfg.Clock,
		logger:     cfg.Logger.Named("session"),
		nodeID:     cfg.NodeID,
		router:     make(map[string]CommandHandlerFunc),
		moveRouter: make(map[string]MoveFunc),
	}
	h.registerMatchHandlers()
	h.registerMoveHandlers()
	return h
}

// --- Implementação da Interface network.EventHandler ---

func (h *GameHandler) OnConnect(c *network.Client) { h.connect(c) }

func (h *GameHandler) OnDisconnect(c *network.Client) { h.disconnect(c.ID()) }

func (h *GameHandler) OnMessage(c *network.Client, msg network.Message) { h.handle(c, msg) }

func (h *GameHandler) connect(c message.MessageSender) {
	h.presence.Add(c)
	h.logger.Debug("[Session] connection opened", zap.String("conn_id", c.ID()), zap.Int("connections", h.presence.Len()))
}

// disconnect solta o assento, mas a sessão continua esperando a reconexão.
func (h *GameHandler) disconnect(connID string) {
	b, ok := h.presence.Remove(connID)
	h.logger.Debug("[Session] connection closed", zap.String("conn_id", connID), zap.Bool("seated", ok))
	if !ok {
		return
	}
	room, err := h.room(b.SessionID)
	if err != nil {
		return
	}
	submitted := room.Submit(func(s *match.Session) {
		now := h.clock()
		if _, res, ok := s.Disconnect(connID, now); ok {
			h.dispatcher.Broadcast(s, res, now)
		}
	})
	if !submitted {
		h.logger.Warn("[Session] could not deliver disconnect to room", zap.String("session_id", b.SessionID))
	}
}

func (h *GameHandler) handle(c message.MessageSender, msg network.Message) {
	handler, found := h.router[msg.Type]
	if !found {
		message.SendError(c, match.Errorf(match.ErrBadRequest, "Unknown command %q", msg.Type))
		return
	}
	handler(h, c, msg.Payload)
}

func (h *GameHandler) room(sessionID string) (*gameroom.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	return h.rooms.Get(ctx, sessionID)
}

// submit entrega fn à sala; sala cheia ou fechada vira erro para o remetente.
func (h *GameHandler) submit(c message.MessageSender, room *gameroom.Room, fn func(s *match.Session)) {
	if !room.Submit(fn) {
		message.SendError(c, match.Errorf(match.ErrBadRequest, "Game is busy, try again"))
	}
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return match.Errorf(match.ErrBadRequest, "Missing payload")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return match.Errorf(match.ErrBadRequest, "Invalid payload: %v", err)
	}
	return nil
}
