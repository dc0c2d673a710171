package message

import (
	"castle/internal/network"
	"fmt"
)

// MessageSender é qualquer coisa que recebe mensagens de saída
// (network.Client em produção, fakes nos testes).
type MessageSender interface {
	ID() string
	Send(msg network.Message) bool
}

// SendError envia a rejeição só para quem mandou a mensagem.
func SendError(sender MessageSender, err error) {
	sender.Send(Error(err))
}

// SendNotify envia um texto formatado.
func SendNotify(sender MessageSender, format string, args ...any) {
	sender.Send(Notify(fmt.Sprintf(format, args...)))
}
