package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Player count bounds and the default trial count when the caller does
// not specify one.
const (
	MinPlayers        = 2
	MaxPlayers        = 6
	HoleCardsPerHand  = 2
	BoardSize         = 5
	DefaultIterations = 20000
)

// PlayerEquity is one player's share of the simulated outcomes, as
// percentages rounded to two decimal places.
type PlayerEquity struct {
	WinPercentage    float64
	TiePercentage    float64
	EquityPercentage float64
}

// Calculator runs Monte Carlo equity simulations. It is a plain value
// with no internal mutable state: distinct calls never share a deck or
// counters, so a single Calculator may be used from concurrent
// goroutines.
//
// Iterations is the number of trials (DefaultIterations if <= 0); the
// caller is responsible for bounding it to a sane range. Workers splits
// the trials across that many goroutines, each with an independent
// random stream; values <= 1 run serially. Seed fixes the random source
// for reproducible runs; 0 seeds from the clock.
type Calculator struct {
	Iterations int
	Workers    int
	Seed       int64
}

// tally holds one worker's private counts, merged only after the worker
// has finished.
type tally struct {
	wins []uint64
	ties []uint64
	// tieShare accumulates 1/len(winners) per tied trial, so a split pot
	// credits each winner its exact share of that trial.
	tieShare []float64
	trials   uint64
}

func newTally(players int) *tally {
	return &tally{
		wins:     make([]uint64, players),
		ties:     make([]uint64, players),
		tieShare: make([]float64, players),
	}
}

func (t *tally) merge(other *tally) {
	for i := range t.wins {
		t.wins[i] += other.wins[i]
		t.ties[i] += other.ties[i]
		t.tieShare[i] += other.tieShare[i]
	}
	t.trials += other.trials
}

// Calculate estimates win/tie/equity percentages for the given players'
// hole cards over a shared, possibly incomplete board. Results are
// indexed by player position matching the input order.
//
// All validation happens before any simulation work: player count in
// [2,6], exactly 2 hole cards per player, board of at most 5 cards, and
// no card appearing twice across the union of all hole and board cards.
// Each failure is a *ValidationError with an enumerated kind.
//
// Cancelling ctx stops issuing trials and returns ctx.Err(); partial
// counts are discarded, never reported as a complete result. Callers
// wanting interim estimates should run smaller batches themselves.
func (c Calculator) Calculate(ctx context.Context, players [][]Card, board []Card) ([]PlayerEquity, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return nil, &ValidationError{
			Kind:  ErrInvalidPlayerCount,
			Value: fmt.Sprintf("%d players", len(players)),
		}
	}
	for i, hole := range players {
		if len(hole) != HoleCardsPerHand {
			return nil, &ValidationError{
				Kind:  ErrInvalidHoleCards,
				Value: fmt.Sprintf("player %d has %d hole cards", i, len(hole)),
			}
		}
	}
	if len(board) > BoardSize {
		return nil, &ValidationError{
			Kind:  ErrInvalidBoardSize,
			Value: fmt.Sprintf("%d board cards", len(board)),
		}
	}
	known := make(map[Card]bool, len(players)*HoleCardsPerHand+len(board))
	for _, hole := range players {
		for _, card := range hole {
			if known[card] {
				return nil, &ValidationError{Kind: ErrDuplicateCard, Value: card.String()}
			}
			known[card] = true
		}
	}
	for _, card := range board {
		if known[card] {
			return nil, &ValidationError{Kind: ErrDuplicateCard, Value: card.String()}
		}
		known[card] = true
	}

	needed := BoardSize - len(board)
	if needed == 0 {
		// Fully determined outcome: a single deterministic trial.
		return resolveKnownBoard(players, board), nil
	}

	iterations := c.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > iterations {
		workers = iterations
	}

	total := newTally(len(players))
	if workers == 1 {
		if err := runTrials(ctx, total, players, board, known, needed, iterations, rand.New(rand.NewSource(seed))); err != nil {
			return nil, err
		}
	} else {
		// Partition the trials; each worker owns a private tally and an
		// independent random stream. The merge below is the only point
		// of shared-state mutation, after all workers have joined.
		tallies := make([]*tally, workers)
		errs := make([]error, workers)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			share := iterations / workers
			if w < iterations%workers {
				share++
			}
			tallies[w] = newTally(len(players))
			wg.Add(1)
			go func(w, share int) {
				defer wg.Done()
				rng := rand.New(rand.NewSource(seed + int64(w)*0x9e3779b9))
				errs[w] = runTrials(ctx, tallies[w], players, board, known, needed, share, rng)
			}(w, share)
		}
		wg.Wait()
		for w := 0; w < workers; w++ {
			if errs[w] != nil {
				return nil, errs[w]
			}
			total.merge(tallies[w])
		}
	}

	results := make([]PlayerEquity, len(players))
	n := float64(total.trials)
	for i := range players {
		results[i] = PlayerEquity{
			WinPercentage:    round2(100 * float64(total.wins[i]) / n),
			TiePercentage:    round2(100 * float64(total.ties[i]) / n),
			EquityPercentage: round2(100 * (float64(total.wins[i]) + total.tieShare[i]) / n),
		}
	}
	return results, nil
}

// runTrials executes count trials into t, checking ctx between trials so
// cancellation stops issuing further work.
func runTrials(ctx context.Context, t *tally, players [][]Card, board []Card, known map[Card]bool, needed, count int, rng *rand.Rand) error {
	hands := make([]EvaluatedHand, len(players))
	fullBoard := make([]Card, 0, BoardSize)
	for trial := 0; trial < count; trial++ {
		if trial%256 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}

		deck := NewDeck(known, rng)
		fullBoard = append(fullBoard[:0], board...)
		fullBoard = append(fullBoard, deck.Draw(needed)...)

		for i, hole := range players {
			// 2 hole + 5 board cards: BestHand cannot fail here.
			hands[i], _ = BestHand(hole, fullBoard)
		}
		scoreTrial(t, hands)
	}
	return nil
}

// scoreTrial finds the maximum hand, then credits either a solo win or a
// per-winner tie share.
func scoreTrial(t *tally, hands []EvaluatedHand) {
	best := hands[0]
	for _, h := range hands[1:] {
		if best.Less(h) {
			best = h
		}
	}
	winners := 0
	for _, h := range hands {
		if h.Equal(best) {
			winners++
		}
	}
	for i, h := range hands {
		if !h.Equal(best) {
			continue
		}
		if winners == 1 {
			t.wins[i]++
		} else {
			t.ties[i]++
			t.tieShare[i] += 1 / float64(winners)
		}
	}
	t.trials++
}

// resolveKnownBoard handles a complete 5-card board, where the winner
// set is fully determined and every percentage is 0 or 100 (equity split
// evenly among tied winners).
func resolveKnownBoard(players [][]Card, board []Card) []PlayerEquity {
	hands := make([]EvaluatedHand, len(players))
	for i, hole := range players {
		hands[i], _ = BestHand(hole, board)
	}
	best := hands[0]
	for _, h := range hands[1:] {
		if best.Less(h) {
			best = h
		}
	}
	winners := 0
	for _, h := range hands {
		if h.Equal(best) {
			winners++
		}
	}

	results := make([]PlayerEquity, len(players))
	for i, h := range hands {
		if !h.Equal(best) {
			continue
		}
		if winners == 1 {
			results[i] = PlayerEquity{WinPercentage: 100, EquityPercentage: 100}
		} else {
			results[i] = PlayerEquity{
				TiePercentage:    100,
				EquityPercentage: round2(100 / float64(winners)),
			}
		}
	}
	return results
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
