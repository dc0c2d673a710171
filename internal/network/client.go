package network

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Tempo para aguardar por uma escrita na conexão.
	writeWait = 10 * time.Second

	// Tempo máximo para aguardar por um pong do cliente.
	pongWait = 60 * time.Second

	// Frequência dos pings. Deve ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10

	sendBuffer = 256
)

// Client é um jogador conectado, do ponto de vista do servidor.
type Client struct {
	id   string
	conn *websocket.Conn
	hub  *Hub

	// Mensagens de saída; o writeLoop esvazia. Fechado uma única vez, sob mu.
	send   chan Message
	mu     sync.Mutex
	closed bool

	logger *zap.Logger
}

func newClient(conn *websocket.Conn, hub *Hub, logger *zap.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		id:     id,
		conn:   conn,
		hub:    hub,
		send:   make(chan Message, sendBuffer),
		logger: logger.With(zap.String("conn_id", id), zap.String("remote", conn.RemoteAddr().String())),
	}
}

func (c *Client) ID() string { return c.id }

// Send enfileira msg sem bloquear. Retorna false se o cliente já saiu ou se
// o buffer está cheio (a mensagem é descartada; o próximo snapshot corrige o cliente).
func (c *Client) Send(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		c.logger.Warn("[Client] send buffer full, dropping message", zap.String("type", msg.Type))
		return false
	}
}

// close encerra o canal de saída; o writeLoop manda o frame de fechamento.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readLoop() {
	defer func() {
		deliver(c.hub, c.hub.unregister, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Info("[Client] unexpected close", zap.Error(err))
			}
			return
		}
		if !deliver(c.hub, c.hub.incoming, clientMessage{client: c, msg: msg}) {
			return
		}
	}
}

// writeLoop bombeia o canal send para a conexão.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Info("[Client] write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
