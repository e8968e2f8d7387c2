package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RonakMehtaa/pokeranalysis/engine"
)

func TestValidHandNotation(t *testing.T) {
	valid := []string{"AA", "KK", "22", "AKs", "AKo", "T9s", "72o", "QJo"}
	for _, h := range valid {
		assert.True(t, ValidHandNotation(h), h)
	}

	invalid := []string{
		"AK",   // non-pair needs a suffix
		"AAs",  // pairs cannot be suited
		"AAo",  // pairs cannot be offsuit
		"A",    // too short
		"AKQs", // too long
		"aks",  // lowercase
		"1Ks",  // bad rank
		"AKx",  // bad suffix
		"",
	}
	for _, h := range invalid {
		assert.False(t, ValidHandNotation(h), h)
	}
}

func TestPositionsFor(t *testing.T) {
	assert.Equal(t, Positions6Max, PositionsFor("6max"))
	assert.Equal(t, Positions9Max, PositionsFor("9max"))
}

func validEquityRequest() EquityRequest {
	return EquityRequest{
		Players: []EquityPlayer{
			{ID: "Hero", HoleCards: []string{"Ah", "Kh"}},
			{ID: "Villain", HoleCards: []string{"Qd", "Qc"}},
		},
		BoardCards: []string{"As", "Kd", "7c"},
		Iterations: 20000,
	}
}

func TestEquityRequestValid(t *testing.T) {
	req := validEquityRequest()
	assert.NoError(t, req.Validate(1000, 100000))
}

func TestEquityRequestZeroIterationsMeansDefault(t *testing.T) {
	req := validEquityRequest()
	req.Iterations = 0
	assert.NoError(t, req.Validate(1000, 100000))
}

func TestEquityRequestValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EquityRequest)
		kind   engine.ErrorKind
	}{
		{
			"too few players",
			func(r *EquityRequest) { r.Players = r.Players[:1] },
			engine.ErrInvalidPlayerCount,
		},
		{
			"too many players",
			func(r *EquityRequest) {
				r.Players = []EquityPlayer{
					{ID: "1", HoleCards: []string{"2c", "3c"}},
					{ID: "2", HoleCards: []string{"4c", "5c"}},
					{ID: "3", HoleCards: []string{"6c", "7c"}},
					{ID: "4", HoleCards: []string{"8c", "9c"}},
					{ID: "5", HoleCards: []string{"Tc", "Jc"}},
					{ID: "6", HoleCards: []string{"Qc", "Kc"}},
					{ID: "7", HoleCards: []string{"Ac", "2d"}},
				}
			},
			engine.ErrInvalidPlayerCount,
		},
		{
			"three hole cards",
			func(r *EquityRequest) { r.Players[0].HoleCards = []string{"Ah", "Kh", "Qh"} },
			engine.ErrInvalidHoleCards,
		},
		{
			"bad card notation",
			func(r *EquityRequest) { r.Players[0].HoleCards = []string{"Ah", "Kx"} },
			engine.ErrInvalidCardNotation,
		},
		{
			"duplicate across players",
			func(r *EquityRequest) { r.Players[1].HoleCards = []string{"Ah", "Qc"} },
			engine.ErrDuplicateCard,
		},
		{
			"duplicate on board",
			func(r *EquityRequest) { r.BoardCards = []string{"Ah", "Kd", "7c"} },
			engine.ErrDuplicateCard,
		},
		{
			"board too large",
			func(r *EquityRequest) { r.BoardCards = []string{"2c", "3c", "4c", "5c", "6c", "7d"} },
			engine.ErrInvalidBoardSize,
		},
		{
			"iterations too low",
			func(r *EquityRequest) { r.Iterations = 500 },
			engine.ErrInvalidIterations,
		},
		{
			"iterations too high",
			func(r *EquityRequest) { r.Iterations = 200000 },
			engine.ErrInvalidIterations,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validEquityRequest()
			tc.mutate(&req)
			err := req.Validate(1000, 100000)
			require.Error(t, err)
			assert.ErrorIs(t, err, &engine.ValidationError{Kind: tc.kind})
		})
	}
}

func TestEquityRequestDuplicateID(t *testing.T) {
	req := validEquityRequest()
	req.Players[1].ID = "Hero"
	err := req.Validate(1000, 100000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate player id")
}

func TestEquityRequestMissingID(t *testing.T) {
	req := validEquityRequest()
	req.Players[0].ID = ""
	require.Error(t, req.Validate(1000, 100000))
}

func TestHandAnalysisRequestDefaultsMode(t *testing.T) {
	req := HandAnalysisRequest{Position: "CO", Hand: "77", Action: "open"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "gto", req.Mode)

	req.Mode = "psychic"
	assert.Error(t, req.Validate())
}

func validHandRecord() HandRecord {
	return HandRecord{
		TableType:        "6max",
		EffectiveStackBB: 100,
		HeroPosition:     "BTN",
		HeroHand:         "AKs",
		VillainPositions: []string{"BB"},
		PreflopAction:    "Hero raises 2.5bb, BB calls",
		FlopBoard:        []string{"Ah", "7d", "2c"},
		FlopAction:       "BB checks, Hero bets 33%, BB calls",
	}
}

func TestHandRecordValid(t *testing.T) {
	h := validHandRecord()
	assert.NoError(t, h.Validate())
	assert.Equal(t, "flop", h.Street())
	assert.Equal(t, []string{"Ah", "7d", "2c"}, h.Board())
}

func TestHandRecordStreets(t *testing.T) {
	h := validHandRecord()
	h.TurnCard = "Td"
	h.TurnAction = "check, check"
	require.NoError(t, h.Validate())
	assert.Equal(t, "turn", h.Street())

	h.RiverCard = "2s"
	h.RiverAction = "BB bets, Hero calls"
	require.NoError(t, h.Validate())
	assert.Equal(t, "river", h.Street())
	assert.Equal(t, []string{"Ah", "7d", "2c", "Td", "2s"}, h.Board())
}

func TestHandRecordValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*HandRecord)
	}{
		{"bad table type", func(h *HandRecord) { h.TableType = "heads-up" }},
		{"zero stack", func(h *HandRecord) { h.EffectiveStackBB = 0 }},
		{"bad hero position", func(h *HandRecord) { h.HeroPosition = "HJ" }}, // 9max only
		{"bad hero hand", func(h *HandRecord) { h.HeroHand = "AK" }},
		{"no villains", func(h *HandRecord) { h.VillainPositions = nil }},
		{"villain equals hero", func(h *HandRecord) { h.VillainPositions = []string{"BTN"} }},
		{"bad villain position", func(h *HandRecord) { h.VillainPositions = []string{"UTG+1"} }},
		{"missing preflop action", func(h *HandRecord) { h.PreflopAction = "" }},
		{"two card flop", func(h *HandRecord) { h.FlopBoard = []string{"Ah", "7d"} }},
		{"missing flop action", func(h *HandRecord) { h.FlopAction = "" }},
		{"bad flop card", func(h *HandRecord) { h.FlopBoard = []string{"Ah", "7d", "2x"} }},
		{"duplicate flop card", func(h *HandRecord) { h.FlopBoard = []string{"Ah", "Ah", "2c"} }},
		{"turn without action", func(h *HandRecord) { h.TurnCard = "Td" }},
		{"turn duplicates flop", func(h *HandRecord) { h.TurnCard = "Ah"; h.TurnAction = "x" }},
		{"river without turn", func(h *HandRecord) { h.RiverCard = "2s"; h.RiverAction = "x" }},
		{
			"river without action",
			func(h *HandRecord) { h.TurnCard = "Td"; h.TurnAction = "x"; h.RiverCard = "2s" },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := validHandRecord()
			tc.mutate(&h)
			assert.Error(t, h.Validate())
		})
	}
}

func TestHandRecordSummary(t *testing.T) {
	h := validHandRecord()
	h.TurnCard = "Td"
	h.TurnAction = "check, check"
	h.VillainNotes = "calls too wide"

	s := h.Summary()
	assert.Contains(t, s, "6max - 100bb")
	assert.Contains(t, s, "Hero (BTN): AKs")
	assert.Contains(t, s, "Flop (Ah 7d 2c)")
	assert.Contains(t, s, "Turn (Td)")
	assert.NotContains(t, s, "River")
	assert.Contains(t, s, "Notes: calls too wide")
}

func TestChatMessageRequestValidate(t *testing.T) {
	req := ChatMessageRequest{HandID: "h1", Message: "why?"}
	assert.NoError(t, req.Validate())

	req.Message = "   "
	assert.Error(t, req.Validate())

	req = ChatMessageRequest{Message: "why?"}
	assert.Error(t, req.Validate())
}
