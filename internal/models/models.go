// Package models defines the request and response schemas of the
// analysis API together with their validation rules. The types are
// purely structural: they check formats and consistency but encode no
// poker strategy.
package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/RonakMehtaa/pokeranalysis/engine"
)

// Table types and position sets accepted by the API.
var (
	TableTypes     = []string{"6max", "9max"}
	Positions6Max  = []string{"UTG", "MP", "CO", "BTN", "SB", "BB"}
	Positions9Max  = []string{"UTG", "UTG+1", "MP", "MP+1", "HJ", "CO", "BTN", "SB", "BB"}
	RangeActions   = []string{"open", "call", "3bet"}
	AnalysisModes  = []string{"gto", "exploitative", "review"}
	PostflopModes  = []string{"gto", "exploitative", "exploitative_with_notes", "review"}
	handNotationRe = regexp.MustCompile(`^([AKQJT98765432])([AKQJT98765432])([so])?$`)
)

const maxVillainNotesLen = 1000

// ValidTableType reports membership in TableTypes.
func ValidTableType(t string) bool { return contains(TableTypes, t) }

// PositionsFor returns the valid position set for a table type.
func PositionsFor(tableType string) []string {
	if tableType == "9max" {
		return Positions9Max
	}
	return Positions6Max
}

// ValidHandNotation checks preflop hand shorthand: pocket pairs ("AA",
// "77") or two distinct ranks with a suited/offsuit suffix ("AKs",
// "QJo"). Pairs must not carry a suffix.
func ValidHandNotation(hand string) bool {
	m := handNotationRe.FindStringSubmatch(hand)
	if m == nil {
		return false
	}
	pair := m[1] == m[2]
	suffixed := m[3] != ""
	if pair {
		return !suffixed
	}
	return suffixed
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func validCard(s string) error {
	_, err := engine.ParseCard(s)
	return err
}

// ---------------------------------------------------------------------------
// Equity calculation
// ---------------------------------------------------------------------------

// EquityPlayer pairs an external player identifier with two hole cards.
type EquityPlayer struct {
	ID        string   `json:"id"`
	HoleCards []string `json:"hole_cards"`
}

// EquityRequest asks for a Monte Carlo equity estimate. Iterations of 0
// means "use the server default".
type EquityRequest struct {
	Players    []EquityPlayer `json:"players"`
	BoardCards []string       `json:"board_cards,omitempty"`
	Iterations int            `json:"iterations,omitempty"`
}

// Validate checks structure before any cards reach the engine: player
// count, unique IDs, hole-card shape and notation, board shape and
// notation, and duplicates across the whole request. The engine
// revalidates on its own inputs; this layer exists to attach player IDs
// and field names to the failures.
func (r *EquityRequest) Validate(minIterations, maxIterations int) error {
	if len(r.Players) < engine.MinPlayers || len(r.Players) > engine.MaxPlayers {
		return fmt.Errorf("players: %w", &engine.ValidationError{
			Kind:  engine.ErrInvalidPlayerCount,
			Value: fmt.Sprintf("%d players", len(r.Players)),
		})
	}

	seenIDs := make(map[string]bool, len(r.Players))
	seenCards := make(map[string]bool)
	for _, p := range r.Players {
		if p.ID == "" {
			return fmt.Errorf("players: missing player id")
		}
		if seenIDs[p.ID] {
			return fmt.Errorf("players: duplicate player id %q", p.ID)
		}
		seenIDs[p.ID] = true

		if len(p.HoleCards) != engine.HoleCardsPerHand {
			return fmt.Errorf("player %q: %w", p.ID, &engine.ValidationError{
				Kind:  engine.ErrInvalidHoleCards,
				Value: fmt.Sprintf("%d hole cards", len(p.HoleCards)),
			})
		}
		for _, c := range p.HoleCards {
			if err := validCard(c); err != nil {
				return fmt.Errorf("player %q: %w", p.ID, err)
			}
			if seenCards[c] {
				return fmt.Errorf("player %q: %w", p.ID, &engine.ValidationError{
					Kind: engine.ErrDuplicateCard, Value: c,
				})
			}
			seenCards[c] = true
		}
	}

	if len(r.BoardCards) > engine.BoardSize {
		return fmt.Errorf("board_cards: %w", &engine.ValidationError{
			Kind:  engine.ErrInvalidBoardSize,
			Value: fmt.Sprintf("%d board cards", len(r.BoardCards)),
		})
	}
	for _, c := range r.BoardCards {
		if err := validCard(c); err != nil {
			return fmt.Errorf("board_cards: %w", err)
		}
		if seenCards[c] {
			return fmt.Errorf("board_cards: %w", &engine.ValidationError{
				Kind: engine.ErrDuplicateCard, Value: c,
			})
		}
		seenCards[c] = true
	}

	if r.Iterations != 0 && (r.Iterations < minIterations || r.Iterations > maxIterations) {
		return fmt.Errorf("iterations: %w", &engine.ValidationError{
			Kind:  engine.ErrInvalidIterations,
			Value: fmt.Sprintf("%d (allowed %d-%d)", r.Iterations, minIterations, maxIterations),
		})
	}
	return nil
}

// PlayerResult is one player's simulated share of the pot.
type PlayerResult struct {
	WinPercentage    float64 `json:"win_percentage"`
	TiePercentage    float64 `json:"tie_percentage"`
	EquityPercentage float64 `json:"equity_percentage"`
}

// EquityResponse reports results keyed by player ID instead of the
// engine's numeric index.
type EquityResponse struct {
	Players    map[string]PlayerResult `json:"players"`
	Iterations int                     `json:"iterations"`
	BoardCards []string                `json:"board_cards"`
	NumPlayers int                     `json:"num_players"`
	Note       string                  `json:"note"`
}

// ---------------------------------------------------------------------------
// Preflop decisions and LLM analysis requests
// ---------------------------------------------------------------------------

// PreflopDecisionRequest looks up the user-defined action for a hand.
type PreflopDecisionRequest struct {
	TableType   string `json:"table_type"`
	Position    string `json:"position"`
	HeroHand    string `json:"hero_hand"`
	PriorAction string `json:"prior_action"`
}

// LLMAnalysisRequest asks the LLM to discuss a hand in the context of
// its user-defined range.
type LLMAnalysisRequest struct {
	Hand      string `json:"hand"`
	Position  string `json:"position"`
	TableType string `json:"table_type"`
	Action    string `json:"action"`
	Context   string `json:"context,omitempty"`
}

// HandAnalysisRequest is the simple free-form analysis request.
type HandAnalysisRequest struct {
	Position  string `json:"position"`
	Hand      string `json:"hand"`
	Action    string `json:"action"`
	Situation string `json:"situation,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

// Validate applies the default mode and checks the mode set.
func (r *HandAnalysisRequest) Validate() error {
	if r.Mode == "" {
		r.Mode = "gto"
	}
	if !contains(AnalysisModes, r.Mode) {
		return fmt.Errorf("mode: invalid analysis mode %q", r.Mode)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Hand history records
// ---------------------------------------------------------------------------

// HandRecord is a normalized postflop hand history. Turn and river are
// optional; a street's action is required whenever its card is present.
type HandRecord struct {
	TableType        string   `json:"table_type"`
	EffectiveStackBB float64  `json:"effective_stack_bb"`
	HeroPosition     string   `json:"hero_position"`
	HeroHand         string   `json:"hero_hand"`
	VillainPositions []string `json:"villain_positions"`
	PreflopAction    string   `json:"preflop_action"`
	FlopBoard        []string `json:"flop_board"`
	FlopAction       string   `json:"flop_action"`
	TurnCard         string   `json:"turn_card,omitempty"`
	TurnAction       string   `json:"turn_action,omitempty"`
	RiverCard        string   `json:"river_card,omitempty"`
	RiverAction      string   `json:"river_action,omitempty"`
	VillainNotes     string   `json:"villain_notes,omitempty"`
}

// Validate enforces the structural rules of a hand record.
func (h *HandRecord) Validate() error {
	if !ValidTableType(h.TableType) {
		return fmt.Errorf("table_type: invalid value %q", h.TableType)
	}
	if h.EffectiveStackBB <= 0 {
		return fmt.Errorf("effective_stack_bb: must be positive, got %v", h.EffectiveStackBB)
	}
	positions := PositionsFor(h.TableType)
	if !contains(positions, h.HeroPosition) {
		return fmt.Errorf("hero_position: invalid position %q for %s", h.HeroPosition, h.TableType)
	}
	if !ValidHandNotation(h.HeroHand) {
		return fmt.Errorf("hero_hand: invalid hand notation %q (use formats like AA, AKs, QJo)", h.HeroHand)
	}
	if len(h.VillainPositions) == 0 || len(h.VillainPositions) > 9 {
		return fmt.Errorf("villain_positions: need 1-9 villains, got %d", len(h.VillainPositions))
	}
	for _, v := range h.VillainPositions {
		if !contains(positions, v) {
			return fmt.Errorf("villain_positions: invalid position %q for %s", v, h.TableType)
		}
		if v == h.HeroPosition {
			return fmt.Errorf("villain_positions: hero position %q cannot also be a villain", v)
		}
	}
	if h.PreflopAction == "" {
		return fmt.Errorf("preflop_action: required")
	}
	if len(h.FlopBoard) != 3 {
		return fmt.Errorf("flop_board: need exactly 3 cards, got %d", len(h.FlopBoard))
	}
	if h.FlopAction == "" {
		return fmt.Errorf("flop_action: required")
	}

	seen := make(map[string]bool, 5)
	for _, c := range h.FlopBoard {
		if err := validCard(c); err != nil {
			return fmt.Errorf("flop_board: %w", err)
		}
		if seen[c] {
			return fmt.Errorf("flop_board: duplicate card %q", c)
		}
		seen[c] = true
	}

	if h.TurnCard != "" {
		if err := validCard(h.TurnCard); err != nil {
			return fmt.Errorf("turn_card: %w", err)
		}
		if seen[h.TurnCard] {
			return fmt.Errorf("turn_card: duplicate card %q", h.TurnCard)
		}
		seen[h.TurnCard] = true
		if h.TurnAction == "" {
			return fmt.Errorf("turn_action: required when turn_card is present")
		}
	}
	if h.RiverCard != "" {
		if h.TurnCard == "" {
			return fmt.Errorf("river_card: turn_card is required before a river card")
		}
		if err := validCard(h.RiverCard); err != nil {
			return fmt.Errorf("river_card: %w", err)
		}
		if seen[h.RiverCard] {
			return fmt.Errorf("river_card: duplicate card %q", h.RiverCard)
		}
		if h.RiverAction == "" {
			return fmt.Errorf("river_action: required when river_card is present")
		}
	}
	if len(h.VillainNotes) > maxVillainNotesLen {
		return fmt.Errorf("villain_notes: at most %d characters", maxVillainNotesLen)
	}
	return nil
}

// Board returns the complete board so far: flop plus any turn and river.
func (h *HandRecord) Board() []string {
	board := append([]string{}, h.FlopBoard...)
	if h.TurnCard != "" {
		board = append(board, h.TurnCard)
	}
	if h.RiverCard != "" {
		board = append(board, h.RiverCard)
	}
	return board
}

// Street reports the furthest street the hand reached.
func (h *HandRecord) Street() string {
	switch {
	case h.RiverCard != "":
		return "river"
	case h.TurnCard != "":
		return "turn"
	default:
		return "flop"
	}
}

// Summary renders a human-readable description of the hand.
func (h *HandRecord) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %gbb\n", h.TableType, h.EffectiveStackBB)
	fmt.Fprintf(&b, "Hero (%s): %s\n", h.HeroPosition, h.HeroHand)
	fmt.Fprintf(&b, "Villains: %s\n", strings.Join(h.VillainPositions, ", "))
	fmt.Fprintf(&b, "\nPreflop: %s\n", h.PreflopAction)
	fmt.Fprintf(&b, "Flop (%s): %s", strings.Join(h.FlopBoard, " "), h.FlopAction)
	if h.TurnCard != "" {
		fmt.Fprintf(&b, "\nTurn (%s): %s", h.TurnCard, h.TurnAction)
	}
	if h.RiverCard != "" {
		fmt.Fprintf(&b, "\nRiver (%s): %s", h.RiverCard, h.RiverAction)
	}
	if h.VillainNotes != "" {
		fmt.Fprintf(&b, "\n\nNotes: %s", h.VillainNotes)
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Hand-scoped chat
// ---------------------------------------------------------------------------

// ChatBoard is the board snapshot inside an immutable chat context.
type ChatBoard struct {
	Flop  []string `json:"flop,omitempty"`
	Turn  string   `json:"turn,omitempty"`
	River string   `json:"river,omitempty"`
}

// HandContext is the immutable hand description a chat conversation is
// scoped to.
type HandContext struct {
	HandID       string    `json:"hand_id"`
	GameType     string    `json:"game_type"`
	StackDepth   string    `json:"stack_depth"`
	HeroPosition string    `json:"hero_position"`
	HeroHand     string    `json:"hero_hand"`
	Board        ChatBoard `json:"board"`
	AnalysisMode string    `json:"analysis_mode"`
	RangePreset  string    `json:"range_preset,omitempty"`
	VillainNotes string    `json:"villain_notes,omitempty"`
	Actions      string    `json:"actions"`
}

// ChatMessageRequest is a follow-up question about one analyzed hand.
type ChatMessageRequest struct {
	HandID      string      `json:"hand_id"`
	Message     string      `json:"message"`
	HandContext HandContext `json:"hand_context"`
}

// Validate requires the message and the scoping hand id.
func (r *ChatMessageRequest) Validate() error {
	if r.HandID == "" {
		return fmt.Errorf("hand_id: required")
	}
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("message: required")
	}
	return nil
}
