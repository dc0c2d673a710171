package match

// Audience diz quem recebe uma notificação.
type Audience int

const (
	Everyone Audience = iota
	AllExcept
	OnlySeat
)

// Notice é uma mensagem legível gerada por uma mutação.
type Notice struct {
	Text     string
	Audience Audience
	Seat     SeatID
}

// Reaches diz se a notificação deve ser entregue ao assento.
func (n Notice) Reaches(seat SeatID) bool {
	switch n.Audience {
	case AllExcept:
		return seat != n.Seat
	case OnlySeat:
		return seat == n.Seat
	default:
		return true
	}
}

// Result descreve uma mutação aceita.
type Result struct {
	Move    string
	Actor   SeatID
	Notices []Notice
	// Ended fica true quando esta mutação levou a sessão a um estado terminal.
	Ended bool
}

func newResult(move string, actor SeatID) *Result {
	return &Result{Move: move, Actor: actor}
}

func (r *Result) notifyAll(text string) {
	r.Notices = append(r.Notices, Notice{Text: text, Audience: Everyone})
}

func (r *Result) notifyOthers(seat SeatID, text string) {
	r.Notices = append(r.Notices, Notice{Text: text, Audience: AllExcept, Seat: seat})
}
