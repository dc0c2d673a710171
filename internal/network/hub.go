package network

import (
	"context"

	"go.uber.org/zap"
)

// clientMessage empacota uma mensagem com o cliente que a enviou.
type clientMessage struct {
	client *Client
	msg    Message
}

// Hub mantém o conjunto de clientes ativos e entrega os eventos ao handler.
type Hub struct {
	// Acessado SOMENTE pela goroutine do Hub.
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	incoming   chan clientMessage

	handler EventHandler
	logger  *zap.Logger

	// fechado quando Run termina; evita que os loops dos clientes fiquem presos
	done chan struct{}
}

func NewHub(handler EventHandler, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		handler:    handler,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// deliver envia para um canal do Hub, desistindo se ele já parou.
func deliver[T any](h *Hub, ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}

// Run processa registros e mensagens até ctx ser cancelado.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("[Hub] started")
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.handler.OnConnect(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				// sinal para o writeLoop daquele cliente parar
				client.close()
				h.handler.OnDisconnect(client)
			}

		case cm := <-h.incoming:
			h.handler.OnMessage(cm.client, cm.msg)

		case <-ctx.Done():
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			h.logger.Info("[Hub] stopped")
			return
		}
	}
}
