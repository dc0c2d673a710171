package session

import (
	"castle/internal/game/match"
	"errors"
	"testing"
	"time"
)

func TestSeatTokenRoundTrip(t *testing.T) {
	tokens := NewSeatTokens("secret", time.Hour)
	raw, err := tokens.Issue("session-1", match.SeatO)
	if err != nil {
		t.Fatal(err)
	}
	sid, seat, err := tokens.Verify(raw)
	if err != nil {
		t.Fatal(err)
	}
	if sid != "session-1" || seat != match.SeatO {
		t.Fatalf("got %s/%s", sid, seat)
	}
}

func TestSeatTokenRejections(t *testing.T) {
	good := NewSeatTokens("secret", time.Hour)
	forged, _ := NewSeatTokens("other", time.Hour).Issue("s", match.SeatX)
	expired, _ := NewSeatTokens("secret", -time.Minute).Issue("s", match.SeatX)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong secret", forged},
		{"expired", expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := good.Verify(tt.token); !errors.Is(err, errInvalidToken) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestSeatTokenRequiresSecret(t *testing.T) {
	if _, err := NewSeatTokens("", time.Hour).Issue("s", match.SeatX); err == nil {
		t.Fatal("issued a token without a secret")
	}
}
