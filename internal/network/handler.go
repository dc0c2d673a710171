package network

// EventHandler é a interface que conecta a rede com a lógica do jogo.
// Os três métodos rodam na goroutine do Hub e não devem bloquear.
type EventHandler interface {
	OnConnect(c *Client)
	OnDisconnect(c *Client)
	OnMessage(c *Client, msg Message)
}
