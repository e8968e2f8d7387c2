package engine

import (
	"fmt"
	"math/rand"
)

// Deck is the working pool of cards available to one simulation trial:
// the 52 canonical cards minus an exclusion set, consumed by drawing
// without replacement. A Deck is built fresh per trial and discarded
// afterwards; it is not safe for concurrent use.
type Deck struct {
	cards [DeckSize]Card
	n     int
	rng   *rand.Rand
}

// NewDeck builds the canonical 52-card deck minus every card in exclude
// (matched by full identity, rank and suit). Draws use the supplied
// random source; rng must not be nil.
func NewDeck(exclude map[Card]bool, rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	for suit := Suit(0); suit < NumSuits; suit++ {
		for rank := RankTwo; rank <= RankAce; rank++ {
			c := Card{Rank: rank, Suit: suit}
			if exclude[c] {
				continue
			}
			d.cards[d.n] = c
			d.n++
		}
	}
	return d
}

// Remaining reports how many cards are left to draw.
func (d *Deck) Remaining() int { return d.n }

// Draw removes n cards chosen uniformly without replacement (a partial
// Fisher-Yates: each draw swaps a random remaining card to the tail).
//
// Drawing more cards than remain panics: deck size is a deterministic
// function of already-validated inputs, so underflow here means the
// validation layer has a bug and the process should fail loudly rather
// than produce a biased simulation.
func (d *Deck) Draw(n int) []Card {
	if n > d.n {
		panic(fmt.Sprintf("engine: deck underflow: draw %d with %d remaining", n, d.n))
	}
	out := make([]Card, n)
	for i := 0; i < n; i++ {
		j := d.rng.Intn(d.n)
		d.n--
		d.cards[j], d.cards[d.n] = d.cards[d.n], d.cards[j]
		out[i] = d.cards[d.n]
	}
	return out
}
