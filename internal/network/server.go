package network

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server promove requisições HTTP para websocket e as entrega ao Hub.
type Server struct {
	hub    *Hub
	logger *zap.Logger
}

// upgrader aceita qualquer origem: os clientes são apps próprios, não páginas de terceiros.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewServer é o ponto de injeção da lógica do jogo.
func NewServer(handler EventHandler, logger *zap.Logger) *Server {
	logger = logger.Named("network")
	return &Server{
		hub:    NewHub(handler, logger),
		logger: logger,
	}
}

// Run inicia a goroutine do Hub; volta quando ctx é cancelado.
func (s *Server) Run(ctx context.Context) {
	s.hub.Run(ctx)
}

// ServeHTTP é o ponto de entrada das conexões (montado em /ws).
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("[Server] upgrade failed", zap.Error(err))
		return
	}

	client := newClient(conn, s.hub, s.logger)
	if !deliver(s.hub, s.hub.register, client) {
		conn.Close()
		return
	}

	go client.writeLoop()
	go client.readLoop()
}
