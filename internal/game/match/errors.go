package match

import (
	"errors"
	"fmt"
)

// Code classifica a rejeição de uma mensagem. Nenhuma rejeição altera o estado.
type Code string

const (
	CodeSessionNotFound Code = "SessionNotFound"
	CodeSessionFull     Code = "SessionFull"
	CodeNotAPlayer      Code = "NotAPlayer"
	CodeNotYourTurn     Code = "NotYourTurn"
	CodeGameOver        Code = "GameOver"
	CodeNotStarted      Code = "NotStarted"
	CodeOutOfResource   Code = "OutOfResource"
	CodeEntityNotFound  Code = "EntityNotFound"
	CodeUnknownMove     Code = "UnknownMove"
	CodeBadRequest      Code = "BadRequest"
)

// Recursos esgotáveis, para distinguir os OutOfResource.
const (
	ResourceDraws     = "draws"
	ResourceDiscards  = "discards"
	ResourceHandSpace = "hand"
	ResourceDeck      = "deck"
	ResourceSpendable = "resources"
)

// Error é o erro tipado do motor de partidas.
type Error struct {
	Code     Code
	Resource string
	Msg      string
}

func (e *Error) Error() string { return e.Msg }

// Is compara por código (e recurso, quando o alvo define um).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Resource == "" || t.Resource == e.Resource)
}

var (
	ErrSessionNotFound = &Error{Code: CodeSessionNotFound, Msg: "Game does not exist"}
	ErrSessionFull     = &Error{Code: CodeSessionFull, Msg: "Game is full"}
	ErrNotAPlayer      = &Error{Code: CodeNotAPlayer, Msg: "Not a player in this game"}
	ErrNotYourTurn     = &Error{Code: CodeNotYourTurn, Msg: "Not your turn"}
	ErrGameOver        = &Error{Code: CodeGameOver, Msg: "Game is over"}
	ErrNotStarted      = &Error{Code: CodeNotStarted, Msg: "Game has not started yet"}
	ErrEntityNotFound  = &Error{Code: CodeEntityNotFound, Msg: "Card not found in hand"}
	ErrUnknownMove     = &Error{Code: CodeUnknownMove, Msg: "Unknown move"}
	ErrBadRequest      = &Error{Code: CodeBadRequest, Msg: "Malformed request"}

	ErrOutOfResource         = &Error{Code: CodeOutOfResource, Msg: "Out of resource"}
	ErrNoDrawsLeft           = &Error{Code: CodeOutOfResource, Resource: ResourceDraws, Msg: "No more draws left"}
	ErrNoDiscardsLeft        = &Error{Code: CodeOutOfResource, Resource: ResourceDiscards, Msg: "No more discards left"}
	ErrHandFull              = &Error{Code: CodeOutOfResource, Resource: ResourceHandSpace, Msg: "Hand is full, cannot draw any more cards"}
	ErrDeckEmpty             = &Error{Code: CodeOutOfResource, Resource: ResourceDeck, Msg: "No more cards"}
	ErrInsufficientResources = &Error{Code: CodeOutOfResource, Resource: ResourceSpendable, Msg: "Not enough resources"}
)

// Errorf cria um erro com o mesmo código/recurso de base e uma mensagem detalhada.
func Errorf(base *Error, format string, args ...any) *Error {
	return &Error{Code: base.Code, Resource: base.Resource, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf extrai o código de um erro; erros desconhecidos viram BadRequest.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeBadRequest
}
