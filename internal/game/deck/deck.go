package deck

import (
	"castle/internal/game/card"
	"fmt"
)

// Nomes das zonas de um assento.
const (
	DECK        = "deck"
	HAND        = "hand"
	BATTLEFIELD = "battlefield"
	GRAVEYARD   = "graveyard"
)

// ZoneOrder é a ordem canônica das zonas (usada em views e verificações).
var ZoneOrder = []string{DECK, HAND, BATTLEFIELD, GRAVEYARD}

// Zones agrupa as quatro zonas de um assento.
type Zones struct {
	zones map[string]*Pile
}

// Inicializa todas as zonas vazias
func NewZones() *Zones {
	return &Zones{
		zones: map[string]*Pile{
			DECK:        new(Pile),
			HAND:        new(Pile),
			BATTLEFIELD: new(Pile),
			GRAVEYARD:   new(Pile),
		},
	}
}

// Zone retorna a pilha de uma zona.
func (z *Zones) Zone(name string) (*Pile, error) {
	pile, ok := z.zones[name]
	if !ok {
		return nil, fmt.Errorf("zone '%s' not found", name)
	}
	return pile, nil
}

func (z *Zones) Deck() *Pile        { return z.zones[DECK] }
func (z *Zones) Hand() *Pile        { return z.zones[HAND] }
func (z *Zones) Battlefield() *Pile { return z.zones[BATTLEFIELD] }
func (z *Zones) Graveyard() *Pile   { return z.zones[GRAVEYARD] }

// DrawToHand move a carta do topo do deck para o topo da mão.
func (z *Zones) DrawToHand() (*card.Entity, error) {
	e, err := z.Deck().PopTop()
	if err != nil {
		return nil, err
	}
	z.Hand().Push(e)
	return e, nil
}

// Move transfere uma entidade específica entre zonas.
func (z *Zones) Move(id, from, to string) (*card.Entity, error) {
	src, err := z.Zone(from)
	if err != nil {
		return nil, err
	}
	dst, err := z.Zone(to)
	if err != nil {
		return nil, err
	}
	e, err := src.Remove(id)
	if err != nil {
		return nil, err
	}
	dst.Push(e)
	return e, nil
}

// MoveAll esvazia uma zona no topo de outra, mantendo a ordem. Retorna quantas cartas moveu.
func (z *Zones) MoveAll(from, to string) (int, error) {
	src, err := z.Zone(from)
	if err != nil {
		return 0, err
	}
	dst, err := z.Zone(to)
	if err != nil {
		return 0, err
	}
	n := src.Len()
	*dst = append(*dst, *src...)
	*src = (*src)[:0]
	return n, nil
}

// Locate diz em qual zona a entidade está e quantas vezes ela aparece no total.
func (z *Zones) Locate(id string) (zone string, occurrences int) {
	for _, name := range ZoneOrder {
		for _, e := range *z.zones[name] {
			if e.ID == id {
				zone = name
				occurrences++
			}
		}
	}
	return zone, occurrences
}

// All retorna todas as entidades do assento, em ZoneOrder.
func (z *Zones) All() []*card.Entity {
	var out []*card.Entity
	for _, name := range ZoneOrder {
		out = append(out, *z.zones[name]...)
	}
	return out
}
