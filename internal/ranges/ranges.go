// Package ranges loads user-defined preflop ranges from JSON files.
//
// The package encodes no poker strategy. Every range is a user-editable
// 13x13 matrix (169 hands) stored as {table_type}_{position}_{action}.json
// in the configured directory; hands missing from a file default to
// "fold" with an explanatory note, and a missing file yields an all-fold
// range.
package ranges

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

// handRanks is the rank order used to generate the canonical 169-hand
// matrix, strongest first.
const handRanks = "AKQJT98765432"

// Valid structural values. These constrain JSON shape, not strategy.
var (
	TableTypes    = []string{"6max", "9max"}
	Positions6Max = []string{"UTG", "MP", "CO", "BTN", "SB", "BB"}
	Positions9Max = []string{"UTG", "UTG+1", "MP", "MP+1", "HJ", "CO", "BTN", "SB", "BB"}
	ActionTypes   = []string{"open", "call", "3bet"}
	HandActions   = []string{"raise", "call", "fold", "3bet"}
)

// AllHands is the canonical 169-hand matrix: 13 pocket pairs, 78 suited
// and 78 offsuit combinations.
var AllHands = buildAllHands()

var allHandSet = func() map[string]bool {
	set := make(map[string]bool, len(AllHands))
	for _, h := range AllHands {
		set[h] = true
	}
	return set
}()

func buildAllHands() []string {
	hands := make([]string, 0, 169)
	for i := 0; i < len(handRanks); i++ {
		hands = append(hands, string(handRanks[i])+string(handRanks[i]))
	}
	for _, suffix := range []string{"s", "o"} {
		for i := 0; i < len(handRanks); i++ {
			for j := i + 1; j < len(handRanks); j++ {
				hands = append(hands, string(handRanks[i])+string(handRanks[j])+suffix)
			}
		}
	}
	return hands
}

// ValidHand reports whether hand is one of the 169 canonical notations.
func ValidHand(hand string) bool { return allHandSet[hand] }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// PositionsFor returns the position set valid for a table type.
func PositionsFor(tableType string) []string {
	if tableType == "9max" {
		return Positions9Max
	}
	return Positions6Max
}

// Range is one loaded range configuration with all 169 hands present.
type Range struct {
	TableType    string            `json:"table_type"`
	Position     string            `json:"position"`
	Action       string            `json:"action"`
	Hands        map[string]string `json:"hands"`
	Explanations map[string]string `json:"explanations"`
}

// fillMissing completes the matrix: hands absent from the file become
// "fold" with a note telling the user how to change that.
func (r *Range) fillMissing() {
	if r.Hands == nil {
		r.Hands = make(map[string]string, len(AllHands))
	}
	if r.Explanations == nil {
		r.Explanations = make(map[string]string, len(AllHands))
	}
	for _, hand := range AllHands {
		if _, ok := r.Hands[hand]; !ok {
			r.Hands[hand] = "fold"
			r.Explanations[hand] = fmt.Sprintf(
				"Hand not defined in %s %s range. Defaulting to fold. Edit the JSON file to add this hand.",
				r.Position, r.Action)
		}
	}
}

// ActionFor returns the user-defined action for a hand, never empty.
func (r *Range) ActionFor(hand string) string {
	if a, ok := r.Hands[hand]; ok {
		return a
	}
	return "fold"
}

// ExplanationFor returns the explanation for a hand, never empty.
func (r *Range) ExplanationFor(hand string) string {
	if e, ok := r.Explanations[hand]; ok && e != "" {
		return e
	}
	return fmt.Sprintf("No explanation provided for %s in %s %s range.", hand, r.Position, r.Action)
}

// actionCounts tallies how many hands map to each action.
func (r *Range) actionCounts() map[string]int {
	counts := make(map[string]int)
	for _, a := range r.Hands {
		counts[a]++
	}
	return counts
}

// RangeInfo is the metadata reported for one loaded range.
type RangeInfo struct {
	TableType    string         `json:"table_type"`
	Position     string         `json:"position"`
	Action       string         `json:"action"`
	HandCount    int            `json:"hand_count"`
	ActionCounts map[string]int `json:"action_counts"`
}

// Metadata describes the loaded ranges and the valid structural values,
// for the /api/ranges endpoint.
type Metadata struct {
	TableTypes   []string            `json:"table_types"`
	Positions    map[string][]string `json:"positions"`
	Actions      []string            `json:"actions"`
	LoadedRanges []RangeInfo         `json:"loaded_ranges"`
	TotalRanges  int                 `json:"total_ranges"`
}

// Loader reads and indexes range files from one directory. Load it once
// at startup; lookups afterwards are read-only.
type Loader struct {
	dir    string
	ranges map[string]*Range
	log    *logrus.Entry
}

// NewLoader creates a Loader for the given directory.
func NewLoader(dir string, log *logrus.Logger) *Loader {
	return &Loader{
		dir:    dir,
		ranges: make(map[string]*Range),
		log:    log.WithField("component", "ranges"),
	}
}

// Count reports how many ranges are loaded.
func (l *Loader) Count() int { return len(l.ranges) }

// LoadAll reads every *.json file in the directory. A file that fails
// validation is logged and skipped; the remaining files still load. A
// missing directory is created so users know where to put files.
func (l *Loader) LoadAll() error {
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		l.log.WithField("dir", l.dir).Warn("range directory not found, creating it; add JSON range files there")
		return os.MkdirAll(l.dir, 0o755)
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.json"))
	if err != nil {
		return fmt.Errorf("scan range dir: %w", err)
	}
	if len(files) == 0 {
		l.log.WithField("dir", l.dir).Warn("no range files found; all lookups will default to fold")
		return nil
	}

	l.log.WithFields(logrus.Fields{"dir": l.dir, "files": len(files)}).Info("loading range files")
	for _, f := range files {
		if err := l.loadFile(f); err != nil {
			l.log.WithError(err).WithField("file", filepath.Base(f)).Error("skipping invalid range file")
		}
	}
	return nil
}

func (l *Loader) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	var r Range
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if err := l.validate(&r); err != nil {
		return err
	}
	r.fillMissing()
	key := rangeKey(r.TableType, r.Position, r.Action)
	l.ranges[key] = &r

	l.log.WithFields(logrus.Fields{
		"range":   key,
		"actions": formatCounts(r.actionCounts()),
	}).Info("loaded range")
	return nil
}

// validate checks JSON structure only: field presence, table type,
// position for that table type, action type, and per-hand actions.
// Unknown hand notations are warned about and dropped rather than
// failing the file.
func (l *Loader) validate(r *Range) error {
	if r.TableType == "" || r.Position == "" || r.Action == "" || r.Hands == nil {
		return fmt.Errorf("missing required field (need table_type, position, action, hands)")
	}
	if !contains(TableTypes, r.TableType) {
		return fmt.Errorf("invalid table_type %q (must be one of %v)", r.TableType, TableTypes)
	}
	positions := PositionsFor(r.TableType)
	if !contains(positions, r.Position) {
		return fmt.Errorf("invalid position %q for %s (must be one of %v)", r.Position, r.TableType, positions)
	}
	if !contains(ActionTypes, r.Action) {
		return fmt.Errorf("invalid action %q (must be one of %v)", r.Action, ActionTypes)
	}
	for hand, action := range r.Hands {
		if !ValidHand(hand) {
			l.log.WithField("hand", hand).Warn("ignoring invalid hand notation")
			delete(r.Hands, hand)
			continue
		}
		if !contains(HandActions, action) {
			return fmt.Errorf("invalid action %q for hand %q (must be one of %v)", action, hand, HandActions)
		}
	}
	if missing := len(AllHands) - len(r.Hands); missing > 0 {
		l.log.WithFields(logrus.Fields{
			"range":   rangeKey(r.TableType, r.Position, r.Action),
			"missing": missing,
		}).Info("missing hands will default to fold")
	}
	return nil
}

// Get returns a loaded range, if present.
func (l *Loader) Get(tableType, position, action string) (*Range, bool) {
	r, ok := l.ranges[rangeKey(tableType, position, action)]
	return r, ok
}

// GetOrDefault returns the loaded range or an all-fold default. It never
// returns nil: a missing file simply means every hand folds.
func (l *Loader) GetOrDefault(tableType, position, action string) *Range {
	if r, ok := l.Get(tableType, position, action); ok {
		return r
	}
	l.log.WithField("range", rangeKey(tableType, position, action)).
		Warn("range not found, defaulting all hands to fold")

	r := &Range{
		TableType:    tableType,
		Position:     position,
		Action:       action,
		Hands:        make(map[string]string, len(AllHands)),
		Explanations: make(map[string]string, len(AllHands)),
	}
	note := fmt.Sprintf(
		"Range file not found for %s %s %s. Create %s to define this range.",
		tableType, position, action,
		filepath.Join(l.dir, rangeKey(tableType, position, action)+".json"))
	for _, hand := range AllHands {
		r.Hands[hand] = "fold"
		r.Explanations[hand] = note
	}
	return r
}

// Metadata lists the loaded ranges and valid structural values.
func (l *Loader) Metadata() Metadata {
	infos := make([]RangeInfo, 0, len(l.ranges))
	for _, r := range l.ranges {
		infos = append(infos, RangeInfo{
			TableType:    r.TableType,
			Position:     r.Position,
			Action:       r.Action,
			HandCount:    len(AllHands),
			ActionCounts: r.actionCounts(),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		a, b := infos[i], infos[j]
		if a.TableType != b.TableType {
			return a.TableType < b.TableType
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Action < b.Action
	})
	return Metadata{
		TableTypes:   TableTypes,
		Positions:    map[string][]string{"6max": Positions6Max, "9max": Positions9Max},
		Actions:      ActionTypes,
		LoadedRanges: infos,
		TotalRanges:  len(l.ranges),
	}
}

func rangeKey(tableType, position, action string) string {
	return fmt.Sprintf("%s_%s_%s", tableType, position, action)
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%d", k, counts[k])
	}
	return out
}
