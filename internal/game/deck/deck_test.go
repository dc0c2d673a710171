package deck

import (
	"castle/internal/game/card"
	"math/rand/v2"
	"testing"
)

func testEntities(t *testing.T, n int) []*card.Entity {
	t.Helper()
	c, err := card.Default()
	if err != nil {
		t.Fatal(err)
	}
	return c.GenerateDeck(rand.New(rand.NewPCG(7, 7)), n)
}

func fill(t *testing.T, n int) (*Zones, []*card.Entity) {
	t.Helper()
	z := NewZones()
	entities := testEntities(t, n)
	for _, e := range entities {
		z.Deck().Push(e)
	}
	return z, entities
}

func TestDrawToHandTakesTopOfDeck(t *testing.T) {
	z, entities := fill(t, 3)

	drawn, err := z.DrawToHand()
	if err != nil {
		t.Fatalf("DrawToHand: %v", err)
	}
	if drawn != entities[2] {
		t.Fatalf("drew %s, want top of deck %s", drawn, entities[2])
	}
	if z.Deck().Len() != 2 || z.Hand().Len() != 1 {
		t.Fatalf("counts deck=%d hand=%d, want 2/1", z.Deck().Len(), z.Hand().Len())
	}
	zone, n := z.Locate(drawn.ID)
	if zone != HAND || n != 1 {
		t.Fatalf("Locate = (%s, %d), want (hand, 1)", zone, n)
	}
}

func TestDrawFromEmptyDeckFails(t *testing.T) {
	z := NewZones()
	if _, err := z.DrawToHand(); err == nil {
		t.Fatal("expected error drawing from empty deck")
	}
	if z.Hand().Len() != 0 {
		t.Fatal("hand changed after failed draw")
	}
}

func TestMoveKeepsEntityInExactlyOneZone(t *testing.T) {
	z, entities := fill(t, 4)
	for i := 0; i < 4; i++ {
		if _, err := z.DrawToHand(); err != nil {
			t.Fatal(err)
		}
	}

	target := entities[1]
	if _, err := z.Move(target.ID, HAND, BATTLEFIELD); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := z.Move(target.ID, HAND, GRAVEYARD); err == nil {
		t.Fatal("moving an entity that left the hand should fail")
	}

	for _, e := range entities {
		if _, n := z.Locate(e.ID); n != 1 {
			t.Fatalf("entity %s appears %d times", e.ID, n)
		}
	}
	if len(z.All()) != 4 {
		t.Fatalf("total entities = %d, want 4", len(z.All()))
	}
}

func TestMoveAllPreservesOrder(t *testing.T) {
	z, entities := fill(t, 3)
	if _, err := z.MoveAll(DECK, BATTLEFIELD); err != nil {
		t.Fatal(err)
	}
	if _, err := z.MoveAll(BATTLEFIELD, GRAVEYARD); err != nil {
		t.Fatal(err)
	}
	moved, err := z.MoveAll(BATTLEFIELD, GRAVEYARD)
	if err != nil {
		t.Fatal(err)
	}
	if moved != 0 {
		t.Fatalf("second MoveAll moved %d cards from an empty zone", moved)
	}

	got := z.Graveyard().Entities()
	for i, e := range entities {
		if got[i] != e {
			t.Fatalf("graveyard[%d] = %s, want %s", i, got[i], e)
		}
	}
	if z.Deck().Len() != 0 || z.Battlefield().Len() != 0 {
		t.Fatal("source zones should be empty")
	}
}

func TestUnknownZone(t *testing.T) {
	z := NewZones()
	if _, err := z.Zone("exile"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}
