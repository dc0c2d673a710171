package deck

import (
	"castle/internal/game/card"
	"math/rand/v2"

	"fmt"
)

// Pile é uma zona ordenada. A cauda do slice é o topo (carta mais recente).
type Pile []*card.Entity

// Len retorna o número de cartas na pilha. É a única fonte da contagem.
func (p *Pile) Len() int {
	if p == nil {
		return 0
	}
	return len(*p)
}

func (p *Pile) Shuffle(r *rand.Rand) {
	n := p.Len()
	for i := n - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		(*p)[i], (*p)[j] = (*p)[j], (*p)[i]
	}
}

// Index procura uma entidade pelo id; -1 se não existir.
func (p *Pile) Index(id string) int {
	for i, e := range *p {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (p *Pile) Get(id string) (*card.Entity, bool) {
	i := p.Index(id)
	if i < 0 {
		return nil, false
	}
	return (*p)[i], true
}

// PopTop remove e retorna a carta do topo.
func (p *Pile) PopTop() (*card.Entity, error) {
	n := p.Len()
	if n == 0 {
		return nil, fmt.Errorf("pile is empty")
	}
	top := (*p)[n-1]
	(*p)[n-1] = nil
	*p = (*p)[:n-1]
	return top, nil
}

func (p *Pile) Push(e *card.Entity) {
	*p = append(*p, e)
}

// Remove tira a entidade com o id informado, preservando a ordem do resto.
func (p *Pile) Remove(id string) (*card.Entity, error) {
	i := p.Index(id)
	if i < 0 {
		return nil, fmt.Errorf("entity %s not found in pile", id)
	}
	e := (*p)[i]
	*p = append((*p)[:i], (*p)[i+1:]...)
	return e, nil
}

// Entities retorna uma cópia rasa do conteúdo.
func (p *Pile) Entities() []*card.Entity {
	out := make([]*card.Entity, p.Len())
	copy(out, *p)
	return out
}
