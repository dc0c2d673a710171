package match

import "testing"

func TestOutcome(t *testing.T) {
	seats := func(x, o int) []*Seat {
		return []*Seat{{ID: SeatX, Tower: x}, {ID: SeatO, Tower: o}}
	}
	tests := []struct {
		name  string
		seats []*Seat
		state Lifecycle
		want  Lifecycle
	}{
		{"X down", seats(0, 5), StateOngoing, WinsFor(SeatO)},
		{"O down", seats(7, 0), StateOngoing, WinsFor(SeatX)},
		{"both down", seats(0, 0), StateOngoing, StateDraw},
		{"both alive", seats(1, 5), StateOngoing, StateOngoing},
		{"terminal is kept", seats(0, 5), WinsFor(SeatX), WinsFor(SeatX)},
		{"draw is kept", seats(5, 5), StateDraw, StateDraw},
		{"waiting is kept", seats(0, 5), StateWaiting, StateWaiting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Outcome(tt.seats, tt.state)
			if got != tt.want {
				t.Fatalf("Outcome = %s, want %s", got, tt.want)
			}
			if again := Outcome(tt.seats, got); again != got {
				t.Fatalf("not idempotent: %s then %s", got, again)
			}
		})
	}
}
