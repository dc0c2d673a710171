package message

// Mensagens no sentido servidor -> cliente.
import (
	"castle/internal/game/match"
	"castle/internal/game/view"
	"castle/internal/network"
	"encoding/json"
)

// Tipos de mensagem de saída.
const (
	TypeSessionCreated = "sessionCreated"
	TypeSeatAssigned   = "seatAssigned"
	TypeGameUpdated    = "gameUpdated"
	TypeNotify         = "notify"
	TypeError          = "error"
)

type SessionCreatedPayload struct {
	SessionID string `json:"sessionId"`
}

// SeatAssignedPayload leva o token que permite retomar o assento depois de cair
// e o nó que guarda a sessão, para onde o rejoin precisa voltar.
type SeatAssignedPayload struct {
	SessionID string       `json:"sessionId"`
	Seat      match.SeatID `json:"seat"`
	Token     string       `json:"token,omitempty"`
	Node      string       `json:"node,omitempty"`
}

type NotifyPayload struct {
	Text string `json:"text"`
}

type ErrorPayload struct {
	Code match.Code `json:"code"`
	Text string     `json:"text"`
}

func build(msgType string, payload any) network.Message {
	// os payloads daqui são structs simples; Marshal não falha
	raw, _ := json.Marshal(payload)
	return network.Message{Type: msgType, Payload: raw}
}

func SessionCreated(sessionID string) network.Message {
	return build(TypeSessionCreated, SessionCreatedPayload{SessionID: sessionID})
}

func SeatAssigned(sessionID string, seat match.SeatID, token, node string) network.Message {
	return build(TypeSeatAssigned, SeatAssignedPayload{SessionID: sessionID, Seat: seat, Token: token, Node: node})
}

func GameUpdated(v view.MaskedSession) network.Message {
	return build(TypeGameUpdated, v)
}

func Notify(text string) network.Message {
	return build(TypeNotify, NotifyPayload{Text: text})
}

// Error converte qualquer erro em mensagem; erros fora do match viram BadRequest.
func Error(err error) network.Message {
	return build(TypeError, ErrorPayload{Code: match.CodeOf(err), Text: err.Error()})
}
