package match

// Outcome é a checagem de vitória/empate. Só avalia sessões em andamento:
// um estado terminal nunca volta para ongoing.
func Outcome(seats []*Seat, state Lifecycle) Lifecycle {
	if state != StateOngoing {
		return state
	}
	var alive []*Seat
	for _, st := range seats {
		if st.Alive() {
			alive = append(alive, st)
		}
	}
	switch len(alive) {
	case 0:
		return StateDraw
	case 1:
		return WinsFor(alive[0].ID)
	default:
		return state
	}
}

func (s *Session) gameOverText() string {
	if s.State == StateDraw {
		return "Game over: draw"
	}
	return "Game over: " + string(s.State)
}
