package card

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
)

//go:embed catalog.json
var defaultCatalogJSON []byte

// cardSpec é o formato de uma carta no arquivo de catálogo.
type cardSpec struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Cost   int    `json:"cost"`
	Effect Effect `json:"effect"`
}

// Catalog guarda as definições imutáveis das cartas, indexadas pela chave.
type Catalog struct {
	cards map[string]*Card
	keys  []string
}

var (
	defaultCatalog     *Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// Default retorna o catálogo embutido no binário.
func Default() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = ParseCatalog(defaultCatalogJSON)
	})
	return defaultCatalog, defaultCatalogErr
}

// LoadCatalogFile lê um catálogo externo em JSON.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog valida cada carta e monta o catálogo.
func ParseCatalog(data []byte) (*Catalog, error) {
	var specs []cardSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	c := &Catalog{cards: make(map[string]*Card, len(specs))}
	for _, s := range specs {
		if _, dup := c.cards[s.Key]; dup {
			return nil, fmt.Errorf("duplicate card key: %s", s.Key)
		}
		card, err := newCard(s.Key, s.Name, s.Cost, s.Effect)
		if err != nil {
			return nil, err
		}
		c.cards[s.Key] = card
		c.keys = append(c.keys, s.Key)
	}
	sort.Strings(c.keys)
	return c, nil
}

func (c *Catalog) Len() int { return len(c.keys) }

// GenerateDeck sorteia n cartas do catálogo e cria uma entidade nova para cada uma.
func (c *Catalog) GenerateDeck(r *rand.Rand, n int) []*Entity {
	deck := make([]*Entity, 0, n)
	for i := 0; i < n; i++ {
		card := c.cards[c.keys[r.IntN(len(c.keys))]]
		deck = append(deck, NewEntity(card))
	}
	return deck
}

// NewEntity cria uma instância endereçável de uma carta.
func NewEntity(card *Card) *Entity {
	return &Entity{ID: uuid.NewString(), Card: card}
}
