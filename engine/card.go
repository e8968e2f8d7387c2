// Package engine implements the poker equity engine: the card model, a
// drawable deck, a 5-card hand evaluator with total ordering, and a Monte
// Carlo equity calculator for 2-6 players.
//
// The package is pure computation with no I/O and no third-party
// dependencies, suitable for direct embedding by the HTTP service layer
// or any other caller.
package engine

// Rank is the numeric ordinal of a card rank: Two=2 .. Ace=14.
type Rank uint8

const (
	RankTwo   Rank = 2
	RankThree Rank = 3
	RankFour  Rank = 4
	RankFive  Rank = 5
	RankSix   Rank = 6
	RankSeven Rank = 7
	RankEight Rank = 8
	RankNine  Rank = 9
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
)

// Suit identifies one of the four card suits. Suits carry no ordering
// semantics; they exist for equality and flush detection only.
type Suit uint8

const (
	SuitHearts   Suit = iota // h
	SuitDiamonds             // d
	SuitClubs                // c
	SuitSpades               // s
)

// NumRanks and NumSuits size the canonical deck (52 cards).
const (
	NumRanks = 13
	NumSuits = 4
	DeckSize = NumRanks * NumSuits
)

var rankChars = [NumRanks]byte{'2', '3', '4', '5', '6', '7', '8', '9', 'T', 'J', 'Q', 'K', 'A'}
var suitChars = [NumSuits]byte{'h', 'd', 'c', 's'}

// Card is an immutable (rank, suit) pair. The zero value is not a valid
// card; construct cards via NewCard or ParseCard. Card is comparable and
// usable as a map key for exclusion sets.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard constructs a Card from a rank ordinal and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// ParseCard parses two-character card notation such as "Ah" or "Td":
// a rank character (2-9, T, J, Q, K, A) followed by a suit character
// (h, d, c, s). Any other input yields a ValidationError of kind
// ErrInvalidCardNotation carrying the offending text.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, &ValidationError{Kind: ErrInvalidCardNotation, Value: s}
	}
	rank, ok := parseRank(s[0])
	if !ok {
		return Card{}, &ValidationError{Kind: ErrInvalidCardNotation, Value: s}
	}
	suit, ok := parseSuit(s[1])
	if !ok {
		return Card{}, &ValidationError{Kind: ErrInvalidCardNotation, Value: s}
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a slice of card notations, failing on the first
// invalid entry.
func ParseCards(ss []string) ([]Card, error) {
	cards := make([]Card, 0, len(ss))
	for _, s := range ss {
		c, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func parseRank(b byte) (Rank, bool) {
	for i, rc := range rankChars {
		if b == rc {
			return Rank(i + 2), true
		}
	}
	return 0, false
}

func parseSuit(b byte) (Suit, bool) {
	for i, sc := range suitChars {
		if b == sc {
			return Suit(i), true
		}
	}
	return 0, false
}

// String renders the card in the same two-character notation ParseCard
// accepts, e.g. "Ah".
func (c Card) String() string {
	if c.Rank < RankTwo || c.Rank > RankAce || c.Suit > SuitSpades {
		return "??"
	}
	return string([]byte{rankChars[c.Rank-2], suitChars[c.Suit]})
}
