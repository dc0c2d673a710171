package card

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("expected embedded catalog to have cards")
	}
	if len(c.cards) != c.Len() {
		t.Fatalf("cards = %d, keys = %d", len(c.cards), c.Len())
	}
	for _, key := range c.keys {
		if card := c.cards[key]; card == nil || card.Key() != key {
			t.Errorf("card for key %q = %v", key, card)
		}
	}
}

func TestParseCatalogRejectsInvalidCards(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "empty list",
			data:    `[]`,
			wantErr: "empty",
		},
		{
			name:    "negative cost",
			data:    `[{"key":"a","name":"A","cost":-1,"effect":{"id":"build_wall","amount":1}}]`,
			wantErr: "invalid cost",
		},
		{
			name:    "unknown effect",
			data:    `[{"key":"a","name":"A","cost":1,"effect":{"id":"fireball"}}]`,
			wantErr: "unknown effect",
		},
		{
			name:    "delayed without inner effect",
			data:    `[{"key":"a","name":"A","cost":1,"effect":{"id":"delayed","delay":2}}]`,
			wantErr: "nothing to run",
		},
		{
			name:    "odd delay",
			data:    `[{"key":"a","name":"A","cost":1,"effect":{"id":"delayed","delay":1,"then":{"id":"damage_tower","amount":5,"target":"opponent"}}}]`,
			wantErr: "even number of turns",
		},
		{
			name:    "lua without script",
			data:    `[{"key":"a","name":"A","cost":1,"effect":{"id":"lua"}}]`,
			wantErr: "without script",
		},
		{
			name:    "duplicate key",
			data:    `[{"key":"a","name":"A","cost":1,"effect":{"id":"build_wall"}},{"key":"a","name":"B","cost":1,"effect":{"id":"build_wall"}}]`,
			wantErr: "duplicate",
		},
		{
			name:    "bad target",
			data:    `[{"key":"a","name":"A","cost":1,"effect":{"id":"damage","target":"everyone"}}]`,
			wantErr: "invalid effect target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateDeckCreatesDistinctEntities(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	r := rand.New(rand.NewPCG(1, 2))
	deck := c.GenerateDeck(r, 30)
	if len(deck) != 30 {
		t.Fatalf("deck size = %d, want 30", len(deck))
	}

	seen := make(map[string]bool)
	for _, e := range deck {
		if e.ID == "" {
			t.Fatal("entity without id")
		}
		if seen[e.ID] {
			t.Fatalf("duplicate entity id %s", e.ID)
		}
		seen[e.ID] = true
		if c.cards[e.Card.Key()] != e.Card {
			t.Fatalf("entity references card outside catalog: %s", e.Card.Key())
		}
	}
}
