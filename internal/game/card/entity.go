package card

// Entity é uma cópia de carta dentro de uma sessão. O ID é único na sessão
// e identifica a carta independente da posição em que ela está.
type Entity struct {
	ID   string
	Card *Card
}

func (e *Entity) Name() string { return e.Card.Name() }
func (e *Entity) Cost() int    { return e.Card.Cost() }

func (e *Entity) String() string {
	return e.Card.Name() + "#" + e.ID
}
