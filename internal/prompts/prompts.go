// Package prompts renders the text sent to the LLM. Templates live as
// plain .txt files in the configured directory so users can edit them
// without rebuilding; variables use {{name}} placeholders. The builders
// only assemble user-provided data into text, they contain no strategy.
package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/RonakMehtaa/pokeranalysis/internal/models"
)

// Template names used by the analysis endpoints.
const (
	TemplateGTO                   = "gto"
	TemplateExploitative          = "exploitative"
	TemplateExploitativeWithNotes = "exploitative_with_notes"
	TemplateReview                = "review"
)

// Store loads prompt templates from a directory and caches them.
type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string]string
}

// NewStore creates a Store reading from dir. Templates are loaded
// lazily on first use.
func NewStore(dir string) *Store {
	return &Store{dir: dir, cache: make(map[string]string)}
}

// Load returns the named template ({dir}/{name}.txt).
func (s *Store) Load(name string) (string, error) {
	s.mu.RLock()
	tmpl, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", fmt.Errorf("load prompt template %s: %w", name, err)
	}
	tmpl = string(data)

	s.mu.Lock()
	s.cache[name] = tmpl
	s.mu.Unlock()
	return tmpl, nil
}

// Render substitutes {{name}} placeholders in a template. Unknown
// placeholders are left in place so broken templates are visible.
func Render(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Postflop renders the analysis prompt for a hand record using the
// named template. Turn and river sections appear only when the hand
// reached those streets.
func (s *Store) Postflop(name string, hand *models.HandRecord) (string, error) {
	tmpl, err := s.Load(name)
	if err != nil {
		return "", err
	}

	turnSection := ""
	if hand.TurnCard != "" {
		turnSection = fmt.Sprintf("\n\nTURN (%s):\n%s", hand.TurnCard, hand.TurnAction)
	}
	riverSection := ""
	if hand.RiverCard != "" {
		riverSection = fmt.Sprintf("\n\nRIVER (%s):\n%s", hand.RiverCard, hand.RiverAction)
	}

	return Render(tmpl, map[string]string{
		"street":             hand.Street(),
		"table_type":         hand.TableType,
		"effective_stack_bb": fmt.Sprintf("%g", hand.EffectiveStackBB),
		"hero_position":      hand.HeroPosition,
		"hero_hand":          hand.HeroHand,
		"villain_positions":  strings.Join(hand.VillainPositions, ", "),
		"preflop_action":     hand.PreflopAction,
		"flop_board":         strings.Join(hand.FlopBoard, " "),
		"flop_action":        hand.FlopAction,
		"turn_section":       turnSection,
		"river_section":      riverSection,
		"villain_notes":      hand.VillainNotes,
	}), nil
}

// Analyze renders the free-form analysis prompt for the given mode
// using the analyze_{mode} template.
func (s *Store) Analyze(req *models.HandAnalysisRequest) (string, error) {
	tmpl, err := s.Load("analyze_" + req.Mode)
	if err != nil {
		return "", err
	}
	situation := req.Situation
	if situation == "" {
		situation = "No additional context provided"
	}
	return Render(tmpl, map[string]string{
		"position":  req.Position,
		"hand":      req.Hand,
		"action":    req.Action,
		"situation": situation,
	}), nil
}

// RangeAnalysis builds the prompt that asks the LLM to discuss a hand
// in the context of its user-defined range data.
func RangeAnalysis(req *models.LLMAnalysisRequest, recommendedAction, explanation string) string {
	context := req.Context
	if context == "" {
		context = "None provided"
	}
	return fmt.Sprintf(`You are a poker analysis assistant. Analyze the following hand based on the provided range data.

Hand: %s
Position: %s
Table Type: %s
Action Context: %s

Range Data (User-Defined):
- Recommended Action: %s
- Range Explanation: %s

Additional Context: %s

Please provide:
1. A clear explanation of why this hand is played this way in this position
2. Key factors that make this hand %s
3. Common mistakes players make with this hand
4. How this hand performs postflop

Keep the analysis educational and focused on learning.`,
		req.Hand, req.Position, req.TableType, req.Action,
		recommendedAction, explanation, context, recommendedAction)
}

// Chat builds the hand-scoped prompt for a follow-up question. The
// instructions pin the LLM to the immutable hand context.
func Chat(req *models.ChatMessageRequest) string {
	hc := req.HandContext

	var boardParts []string
	if len(hc.Board.Flop) > 0 {
		boardParts = append(boardParts, "Flop: "+strings.Join(hc.Board.Flop, " "))
	}
	if hc.Board.Turn != "" {
		boardParts = append(boardParts, "Turn: "+hc.Board.Turn)
	}
	if hc.Board.River != "" {
		boardParts = append(boardParts, "River: "+hc.Board.River)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are a poker coach answering a follow-up question about a SPECIFIC hand that has already been analyzed.

CRITICAL INSTRUCTIONS:
- ONLY answer questions about THIS specific hand
- DO NOT introduce new facts or scenarios
- DO NOT reference other hands or situations
- Stay strictly within the provided hand context
- If the question is unrelated to this hand, politely redirect to the hand context

HAND CONTEXT (IMMUTABLE):
Hand ID: %s
Game: %s
Stack: %s
Position: %s
Hero Hand: %s
Board: %s
Analysis Mode: %s`,
		hc.HandID, hc.GameType, hc.StackDepth, hc.HeroPosition,
		hc.HeroHand, strings.Join(boardParts, ", "), hc.AnalysisMode)

	if hc.RangePreset != "" {
		fmt.Fprintf(&b, "\nRange Preset: %s", hc.RangePreset)
	}
	if hc.VillainNotes != "" {
		fmt.Fprintf(&b, "\nVillain Notes: %s", hc.VillainNotes)
	}

	fmt.Fprintf(&b, `

ACTION SEQUENCE:
%s

USER'S QUESTION:
%s

Provide a clear, concise answer focused ONLY on this specific hand. Keep your response educational and helpful.`,
		hc.Actions, req.Message)

	return b.String()
}
