// Package events espelha os acontecimentos das sessões num barramento NATS,
// para ferramentas externas (replays, painéis) acompanharem as partidas.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Event é o registro publicado a cada mutação aceita.
type Event struct {
	SessionID  string    `json:"sessionId"`
	Version    uint64    `json:"version"`
	Move       string    `json:"move"`
	Actor      string    `json:"actor,omitempty"`
	State      string    `json:"state"`
	TurnNumber int       `json:"turnNumber"`
	Ended      bool      `json:"ended"`
	Notices    []Notice  `json:"notices,omitempty"`
	At         time.Time `json:"at"`
}

// Notice é uma notificação com o público a que se destinava.
type Notice struct {
	Text     string `json:"text"`
	Audience string `json:"audience"`
	Seat     string `json:"seat,omitempty"`
}

// Publisher recebe os eventos. Publish não deve bloquear a sala.
type Publisher interface {
	Publish(e Event) error
	Close()
}

// Subject é o assunto NATS dos eventos de uma sessão.
func Subject(sessionID string) string {
	return "castle.sessions." + sessionID + ".events"
}

// Nop descarta tudo; usado quando NATS_URL não está configurado.
type Nop struct{}

func (Nop) Publish(Event) error { return nil }
func (Nop) Close()              {}

// NATSPublisher publica em castle.sessions.<id>.events.
type NATSPublisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// Connect abre a conexão e reconecta para sempre em segundo plano.
func Connect(url string, logger *zap.Logger) (*NATSPublisher, error) {
	logger = logger.Named("events")
	nc, err := nats.Connect(url,
		nats.Name("castle-server"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("[Events] disconnected from NATS", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("[Events] reconnected to NATS", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	logger.Info("[Events] connected to NATS", zap.String("url", nc.ConnectedUrl()))
	return &NATSPublisher{nc: nc, logger: logger}, nil
}

// Publish só enfileira no buffer do cliente NATS; não espera o servidor.
func (p *NATSPublisher) Publish(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.nc.Publish(Subject(e.SessionID), data); err != nil {
		return fmt.Errorf("publish event for session %s: %w", e.SessionID, err)
	}
	return nil
}

// Close esvazia o buffer antes de fechar.
func (p *NATSPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("[Events] drain failed", zap.Error(err))
		p.nc.Close()
	}
}

// Check é usado pelo /health.
func (p *NATSPublisher) Check() error {
	if !p.nc.IsConnected() {
		return fmt.Errorf("nats connection is %s", p.nc.Status())
	}
	return nil
}
