package engine

import (
	"fmt"
	"sort"
)

// HandCategory is the standard poker hand class, ordered weakest to
// strongest.
type HandCategory uint8

const (
	HighCard HandCategory = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c HandCategory) String() string {
	switch c {
	case HighCard:
		return "high_card"
	case Pair:
		return "pair"
	case TwoPair:
		return "two_pair"
	case ThreeOfAKind:
		return "three_of_a_kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full_house"
	case FourOfAKind:
		return "four_of_a_kind"
	case StraightFlush:
		return "straight_flush"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// EvaluatedHand is the totally ordered value of a classified 5-card hand:
// the category, then a tie-break vector of rank ordinals compared
// element-wise (higher wins). Unused trailing tiebreak slots are zero and
// never reached when comparing hands of the same category.
type EvaluatedHand struct {
	Category HandCategory
	Tiebreak [5]Rank
}

// Less reports whether h ranks strictly below other.
func (h EvaluatedHand) Less(other EvaluatedHand) bool {
	if h.Category != other.Category {
		return h.Category < other.Category
	}
	for i := 0; i < 5; i++ {
		if h.Tiebreak[i] != other.Tiebreak[i] {
			return h.Tiebreak[i] < other.Tiebreak[i]
		}
	}
	return false
}

// Equal reports whether two hands tie exactly: same category and
// identical tie-break vector.
func (h EvaluatedHand) Equal(other EvaluatedHand) bool {
	return h.Category == other.Category && h.Tiebreak == other.Tiebreak
}

func tiebreak(ranks ...Rank) [5]Rank {
	var tb [5]Rank
	copy(tb[:], ranks)
	return tb
}

// Evaluate classifies exactly 5 cards into an EvaluatedHand. It is a
// total function: any 5 distinct cards produce a deterministic result.
func Evaluate(cards [5]Card) EvaluatedHand {
	// Rank ordinals, descending.
	var vals [5]Rank
	for i, c := range cards {
		vals[i] = c.Rank
	}
	sort.Slice(vals[:], func(i, j int) bool { return vals[i] > vals[j] })

	flush := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	straight := true
	straightHigh := vals[0]
	for i := 1; i < 5; i++ {
		if vals[i] != vals[i-1]-1 {
			straight = false
			break
		}
	}
	// The wheel: A-5-4-3-2 plays as a 5-high straight. No other
	// non-contiguous pattern qualifies.
	if !straight && vals == [5]Rank{RankAce, RankFive, RankFour, RankThree, RankTwo} {
		straight = true
		straightHigh = RankFive
	}

	// Multiplicity per rank in a fixed array, then canonical
	// (count desc, rank desc) ordering.
	var rankCount [int(RankAce) + 1]uint8
	for _, c := range cards {
		rankCount[c.Rank]++
	}
	type group struct {
		rank  Rank
		count uint8
	}
	groups := make([]group, 0, 5)
	for r := RankAce; r >= RankTwo; r-- {
		if rankCount[r] > 0 {
			groups = append(groups, group{rank: r, count: rankCount[r]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].count > groups[j].count })

	switch {
	case straight && flush:
		return EvaluatedHand{Category: StraightFlush, Tiebreak: tiebreak(straightHigh)}
	case groups[0].count == 4:
		return EvaluatedHand{Category: FourOfAKind, Tiebreak: tiebreak(groups[0].rank, groups[1].rank)}
	case groups[0].count == 3 && groups[1].count == 2:
		return EvaluatedHand{Category: FullHouse, Tiebreak: tiebreak(groups[0].rank, groups[1].rank)}
	case flush:
		return EvaluatedHand{Category: Flush, Tiebreak: vals}
	case straight:
		return EvaluatedHand{Category: Straight, Tiebreak: tiebreak(straightHigh)}
	case groups[0].count == 3:
		return EvaluatedHand{Category: ThreeOfAKind, Tiebreak: tiebreak(groups[0].rank, groups[1].rank, groups[2].rank)}
	case groups[0].count == 2 && groups[1].count == 2:
		return EvaluatedHand{Category: TwoPair, Tiebreak: tiebreak(groups[0].rank, groups[1].rank, groups[2].rank)}
	case groups[0].count == 2:
		return EvaluatedHand{Category: Pair, Tiebreak: tiebreak(groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank)}
	default:
		return EvaluatedHand{Category: HighCard, Tiebreak: vals}
	}
}

// BestHand selects the strongest 5-card hand from 2 hole cards plus 0-5
// board cards by evaluating every 5-card subset (at most C(7,5)=21) and
// taking the maximum. Fewer than 5 cards total is a validation failure
// of kind ErrInsufficientCards.
func BestHand(hole []Card, board []Card) (EvaluatedHand, error) {
	pool := make([]Card, 0, 7)
	pool = append(pool, hole...)
	pool = append(pool, board...)
	if len(pool) < 5 {
		return EvaluatedHand{}, &ValidationError{
			Kind:  ErrInsufficientCards,
			Value: fmt.Sprintf("%d cards", len(pool)),
		}
	}

	var best EvaluatedHand
	first := true
	forEachFive(pool, func(hand [5]Card) {
		ev := Evaluate(hand)
		if first || best.Less(ev) {
			best = ev
			first = false
		}
	})
	return best, nil
}

// forEachFive visits every 5-card subset of pool. The pool never exceeds
// 7 cards, so plain nested index loops are clearer than a generic
// combination generator.
func forEachFive(pool []Card, visit func([5]Card)) {
	n := len(pool)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						visit([5]Card{pool[a], pool[b], pool[c], pool[d], pool[e]})
					}
				}
			}
		}
	}
}
