package engine

import (
	"context"
	"errors"
	"math"
	"testing"
)

func holePairs(t *testing.T, hands ...string) [][]Card {
	t.Helper()
	out := make([][]Card, len(hands))
	for i, h := range hands {
		out[i] = cards(t, h)
	}
	return out
}

func equitySum(results []PlayerEquity) float64 {
	sum := 0.0
	for _, r := range results {
		sum += r.EquityPercentage
	}
	return sum
}

func TestAcesVersusKingsPreflop(t *testing.T) {
	calc := Calculator{Iterations: 5000, Seed: 1}
	results, err := calc.Calculate(context.Background(), holePairs(t, "Ah As", "Kd Kc"), nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if e := results[0].EquityPercentage; e <= 70 || e >= 90 {
		t.Errorf("AA equity = %.2f, want within (70, 90)", e)
	}
	if e := results[1].EquityPercentage; e <= 10 || e >= 30 {
		t.Errorf("KK equity = %.2f, want within (10, 30)", e)
	}
	if sum := equitySum(results); sum < 99 || sum > 101 {
		t.Errorf("equity sum = %.2f, want ~100", sum)
	}
}

func TestDominatedHand(t *testing.T) {
	calc := Calculator{Iterations: 5000, Seed: 2}
	results, err := calc.Calculate(context.Background(), holePairs(t, "Ah Kh", "Ad Qd"), nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if results[0].EquityPercentage <= 65 {
		t.Errorf("AK equity = %.2f, want > 65 against dominated AQ", results[0].EquityPercentage)
	}
	if results[1].EquityPercentage >= 35 {
		t.Errorf("AQ equity = %.2f, want < 35", results[1].EquityPercentage)
	}
}

func TestMadeHandVersusDraw(t *testing.T) {
	calc := Calculator{Iterations: 5000, Seed: 3}
	results, err := calc.Calculate(context.Background(),
		holePairs(t, "As Kc", "Qd Jd"), cards(t, "Ah Kd 7c"))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if results[0].EquityPercentage <= 55 {
		t.Errorf("top two pair equity = %.2f, want > 55 vs draw", results[0].EquityPercentage)
	}
}

func TestThreeWayOrdering(t *testing.T) {
	calc := Calculator{Iterations: 5000, Seed: 4}
	results, err := calc.Calculate(context.Background(),
		holePairs(t, "Ah As", "Kd Kc", "Qh Qs"), nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !(results[0].EquityPercentage > results[1].EquityPercentage &&
		results[1].EquityPercentage > results[2].EquityPercentage) {
		t.Errorf("expected AA > KK > QQ, got %.2f / %.2f / %.2f",
			results[0].EquityPercentage, results[1].EquityPercentage, results[2].EquityPercentage)
	}
	if sum := equitySum(results); sum < 99 || sum > 101 {
		t.Errorf("equity sum = %.2f, want ~100", sum)
	}
}

func TestFourWayAllIn(t *testing.T) {
	calc := Calculator{Iterations: 5000, Seed: 5}
	results, err := calc.Calculate(context.Background(),
		holePairs(t, "Ah As", "Kd Kc", "Ac Kh", "Qh Qs"), nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if results[0].EquityPercentage <= 30 {
		t.Errorf("AA equity = %.2f, want > 30 four-way", results[0].EquityPercentage)
	}
	if sum := equitySum(results); sum < 99 || sum > 101 {
		t.Errorf("equity sum = %.2f, want ~100", sum)
	}
}

// TestCompletedBoard: with all 5 board cards known the outcome is exact,
// regardless of iteration count.
func TestCompletedBoard(t *testing.T) {
	calc := Calculator{Iterations: 100, Seed: 6}
	results, err := calc.Calculate(context.Background(),
		holePairs(t, "Ah Kh", "Qd Qc"), cards(t, "Qs Jd Th 9c 8s"))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if results[0].WinPercentage != 100 || results[0].EquityPercentage != 100 {
		t.Errorf("broadway straight should win outright, got %+v", results[0])
	}
	if results[1].WinPercentage != 0 || results[1].EquityPercentage != 0 {
		t.Errorf("set of queens should lose outright, got %+v", results[1])
	}
}

// TestCompletedBoardTie: board plays for everyone, equity splits evenly.
func TestCompletedBoardTie(t *testing.T) {
	calc := Calculator{Iterations: 1000, Seed: 7}
	results, err := calc.Calculate(context.Background(),
		holePairs(t, "2h 3d", "4c 5s"), cards(t, "As Kh Qd Jc Ts"))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	for i, r := range results {
		if r.TiePercentage != 100 {
			t.Errorf("player %d tie%% = %.2f, want 100", i, r.TiePercentage)
		}
		if r.EquityPercentage != 50 {
			t.Errorf("player %d equity = %.2f, want 50", i, r.EquityPercentage)
		}
		if r.WinPercentage != 0 {
			t.Errorf("player %d win%% = %.2f, want 0", i, r.WinPercentage)
		}
	}
}

func TestValidationRejections(t *testing.T) {
	calc := Calculator{Iterations: 100, Seed: 8}
	ctx := context.Background()

	tests := []struct {
		name    string
		players [][]Card
		board   []Card
		kind    ErrorKind
	}{
		{"one player", holePairs(t, "Ah As"), nil, ErrInvalidPlayerCount},
		{"seven players", holePairs(t,
			"Ah As", "Kh Ks", "Qh Qs", "Jh Js", "Th Ts", "9h 9s", "8h 8s"), nil, ErrInvalidPlayerCount},
		{"three hole cards", [][]Card{cards(t, "Ah As Ac"), cards(t, "Kd Kc")}, nil, ErrInvalidHoleCards},
		{"one hole card", [][]Card{cards(t, "Ah"), cards(t, "Kd Kc")}, nil, ErrInvalidHoleCards},
		{"oversized board", holePairs(t, "Ah As", "Kd Kc"), cards(t, "2h 3d 4c 5s 6h 7d"), ErrInvalidBoardSize},
		{"duplicate across players", holePairs(t, "Ah As", "Ah Kd"), nil, ErrDuplicateCard},
		{"duplicate on board", holePairs(t, "Ah As", "Kd Kc"), cards(t, "Qh Qh"), ErrDuplicateCard},
		{"hole card on board", holePairs(t, "Ah As", "Kd Kc"), cards(t, "Ah 7d 2c"), ErrDuplicateCard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Calculate(ctx, tt.players, tt.board)
			if err == nil {
				t.Fatal("expected validation error, got none")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if verr.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", verr.Kind, tt.kind)
			}
		})
	}
}

// TestSeededReproducibility: identical seeds produce identical results.
func TestSeededReproducibility(t *testing.T) {
	calc := Calculator{Iterations: 2000, Seed: 99}
	players := holePairs(t, "Ah Kh", "8c 8d")

	first, err := calc.Calculate(context.Background(), players, nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	second, err := calc.Calculate(context.Background(), players, nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("player %d: %+v != %+v across identical seeded runs", i, first[i], second[i])
		}
	}
}

// TestParallelAgreesWithSerial: partitioned workers converge to the same
// estimate within Monte Carlo tolerance.
func TestParallelAgreesWithSerial(t *testing.T) {
	players := holePairs(t, "Ah As", "Kd Kc")

	serial := Calculator{Iterations: 20000, Seed: 11}
	parallel := Calculator{Iterations: 20000, Seed: 11, Workers: 4}

	sr, err := serial.Calculate(context.Background(), players, nil)
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	pr, err := parallel.Calculate(context.Background(), players, nil)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	for i := range sr {
		if diff := math.Abs(sr[i].EquityPercentage - pr[i].EquityPercentage); diff > 3 {
			t.Errorf("player %d: serial %.2f vs parallel %.2f differ by %.2f",
				i, sr[i].EquityPercentage, pr[i].EquityPercentage, diff)
		}
	}
}

// TestCancellation: a cancelled context stops the run and reports
// ctx.Err() instead of partial percentages.
func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calc := Calculator{Iterations: 100000, Seed: 12}
	results, err := calc.Calculate(ctx, holePairs(t, "Ah As", "Kd Kc"), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if results != nil {
		t.Error("cancelled run must not return partial results")
	}
}

func TestDefaultIterations(t *testing.T) {
	calc := Calculator{Seed: 13}
	results, err := calc.Calculate(context.Background(), holePairs(t, "Ah As", "Kd Kc"), nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if results[0].EquityPercentage <= 0 || results[0].EquityPercentage >= 100 {
		t.Errorf("unexpected equity %.2f", results[0].EquityPercentage)
	}
}
