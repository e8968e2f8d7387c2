package engine

import (
	"math/rand"
	"testing"
)

func TestNewDeckFull(t *testing.T) {
	d := NewDeck(nil, rand.New(rand.NewSource(1)))
	if d.Remaining() != DeckSize {
		t.Errorf("expected %d cards, got %d", DeckSize, d.Remaining())
	}
}

func TestNewDeckExcludes(t *testing.T) {
	exclude := map[Card]bool{
		NewCard(RankAce, SuitHearts): true,
		NewCard(RankKing, SuitClubs): true,
	}
	d := NewDeck(exclude, rand.New(rand.NewSource(1)))
	if d.Remaining() != DeckSize-2 {
		t.Fatalf("expected %d cards, got %d", DeckSize-2, d.Remaining())
	}

	// Excluded identities must never be drawn.
	for _, c := range d.Draw(d.Remaining()) {
		if exclude[c] {
			t.Errorf("drew excluded card %v", c)
		}
	}
}

func TestDrawWithoutReplacement(t *testing.T) {
	d := NewDeck(nil, rand.New(rand.NewSource(7)))
	seen := make(map[Card]bool)
	for i := 0; i < 4; i++ {
		for _, c := range d.Draw(13) {
			if seen[c] {
				t.Fatalf("card %v drawn twice", c)
			}
			seen[c] = true
		}
	}
	if d.Remaining() != 0 {
		t.Errorf("expected empty deck, %d remaining", d.Remaining())
	}
	if len(seen) != DeckSize {
		t.Errorf("expected %d distinct cards, got %d", DeckSize, len(seen))
	}
}

// TestDrawUnderflowPanics: drawing past the end is an internal invariant
// violation and must fail loudly.
func TestDrawUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on deck underflow")
		}
	}()
	d := NewDeck(nil, rand.New(rand.NewSource(1)))
	d.Draw(DeckSize + 1)
}
