package session

import (
	"castle/internal/game/match"
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

var errInvalidToken = errors.New("invalid seat token")

// SeatTokens emite e valida o token que prova a posse de um assento.
// É entregue no seatAssigned e usado no rejoin depois de uma queda.
type SeatTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewSeatTokens(secret string, ttl time.Duration) *SeatTokens {
	return &SeatTokens{secret: []byte(secret), ttl: ttl}
}

func (t *SeatTokens) Issue(sessionID string, seat match.SeatID) (string, error) {
	if len(t.secret) == 0 {
		return "", fmt.Errorf("seat token secret is not configured")
	}
	claims := jwt.MapClaims{
		"sid":  sessionID,
		"seat": string(seat),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify devolve a sessão e o assento do token.
func (t *SeatTokens) Verify(tokenString string) (string, match.SeatID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errInvalidToken
	}
	sid, _ := claims["sid"].(string)
	seat, _ := claims["seat"].(string)
	if sid == "" || (seat != string(match.SeatX) && seat != string(match.SeatO)) {
		return "", "", fmt.Errorf("%w: missing claims", errInvalidToken)
	}
	return sid, match.SeatID(seat), nil
}
