package session

// Payloads de entrada (cliente -> servidor).

// Tipos de mensagem de entrada.
const (
	cmdCreate    = "create"
	cmdJoin      = "join"
	cmdRejoin    = "rejoin"
	cmdMove      = "move"
	cmdResign    = "resign"
	cmdCheckTime = "checkTime"
)

type sessionRequest struct {
	SessionID string `json:"sessionId"`
}

type rejoinRequest struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

type moveDetails struct {
	EntityID string `json:"entityId"`
}

type moveRequest struct {
	SessionID string      `json:"sessionId"`
	Type      string      `json:"type"`
	Details   moveDetails `json:"details"`
}
