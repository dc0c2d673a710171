//START OF FILE castle/internal/game/card/card.go
package card

import (
	"fmt"
)

// Card é a definição imutável de uma carta do catálogo.
// Nunca é copiada por instância: as entidades apontam para ela.
type Card struct {
	key    string
	name   string
	cost   int
	effect Effect
}

func (c *Card) Key() string    { return c.key }
func (c *Card) Name() string   { return c.name }
func (c *Card) Cost() int      { return c.cost }
func (c *Card) Effect() Effect { return c.effect }

// Effect referencia um hook registrado pelo id. Os parâmetros são
// interpretados pelo handler (ver match/effects.go).
type Effect struct {
	ID     string  `json:"id"`
	Amount int     `json:"amount,omitempty"`
	Target string  `json:"target,omitempty"`
	Delay  int     `json:"delay,omitempty"` // turnos; sempre par, para disparar na vez de quem jogou
	Then   *Effect `json:"then,omitempty"`
	Script string  `json:"script,omitempty"`
}

// ---- Construtor ----

func newCard(key, name string, cost int, effect Effect) (*Card, error) {
	card := &Card{key: key, name: name, cost: cost, effect: effect}

	validators := []cardValidator{
		validateKey,
		validateName,
		validateCost,
		validateEffect,
	}

	for _, v := range validators {
		if err := v(card); err != nil {
			return nil, err
		}
	}

	return card, nil
}

func (c *Card) String() string {
	return fmt.Sprintf("%s (cost %d)", c.name, c.cost)
}

//END OF FILE castle/internal/game/card/card.go
