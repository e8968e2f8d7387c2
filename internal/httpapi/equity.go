package httpapi

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"

	"github.com/RonakMehtaa/pokeranalysis/engine"
	"github.com/RonakMehtaa/pokeranalysis/internal/models"
)

// handleEquityCalculate runs one Monte Carlo simulation and returns the
// results keyed by player ID.
func (s *Server) handleEquityCalculate(w http.ResponseWriter, r *http.Request) {
	var req models.EquityRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(s.minIterations, s.maxIterations); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	players, board, err := parseEquityCards(&req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	calc := s.calculator(req.Iterations)
	results, err := calc.Calculate(r.Context(), players, board)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "Equity calculation error: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, equityResponse(&req, calc.Iterations, results))
}

func parseEquityCards(req *models.EquityRequest) (players [][]engine.Card, board []engine.Card, err error) {
	players = make([][]engine.Card, len(req.Players))
	for i, p := range req.Players {
		if players[i], err = engine.ParseCards(p.HoleCards); err != nil {
			return nil, nil, err
		}
	}
	if board, err = engine.ParseCards(req.BoardCards); err != nil {
		return nil, nil, err
	}
	return players, board, nil
}

func equityResponse(req *models.EquityRequest, iterations int, results []engine.PlayerEquity) models.EquityResponse {
	byID := make(map[string]models.PlayerResult, len(results))
	for i, p := range req.Players {
		byID[p.ID] = models.PlayerResult{
			WinPercentage:    results[i].WinPercentage,
			TiePercentage:    results[i].TiePercentage,
			EquityPercentage: results[i].EquityPercentage,
		}
	}
	board := req.BoardCards
	if board == nil {
		board = []string{}
	}
	return models.EquityResponse{
		Players:    byID,
		Iterations: iterations,
		BoardCards: board,
		NumPlayers: len(req.Players),
		Note:       "Results are approximate based on Monte Carlo simulation",
	}
}

// streamBatches is how many progress updates a streamed calculation
// produces.
const streamBatches = 10

type streamMessage struct {
	Type       string                         `json:"type"`
	Completed  int                            `json:"completed,omitempty"`
	Iterations int                            `json:"iterations,omitempty"`
	Players    map[string]models.PlayerResult `json:"players,omitempty"`
	Result     *models.EquityResponse         `json:"result,omitempty"`
	Detail     string                         `json:"detail,omitempty"`
}

// handleEquityStream runs the simulation in batches over a websocket,
// sending interim estimates after each batch. The client sends one
// EquityRequest and then only listens; closing the socket cancels the
// remaining work.
func (s *Server) handleEquityStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.wsOrigins,
	})
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")

	readCtx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	var req models.EquityRequest
	err = wsjson.Read(readCtx, conn, &req)
	cancel()
	if err != nil {
		conn.Close(websocket.StatusPolicyViolation, "expected an equity request")
		return
	}

	log := s.log.WithFields(logrus.Fields{
		"request_id": RequestID(r.Context()),
		"players":    len(req.Players),
	})

	if err := req.Validate(s.minIterations, s.maxIterations); err != nil {
		wsjson.Write(r.Context(), conn, streamMessage{Type: "error", Detail: err.Error()})
		conn.Close(websocket.StatusPolicyViolation, "invalid request")
		return
	}
	players, board, err := parseEquityCards(&req)
	if err != nil {
		wsjson.Write(r.Context(), conn, streamMessage{Type: "error", Detail: err.Error()})
		conn.Close(websocket.StatusPolicyViolation, "invalid request")
		return
	}

	// CloseRead cancels ctx as soon as the client goes away.
	ctx := conn.CloseRead(r.Context())

	calc := s.calculator(req.Iterations)
	total := calc.Iterations

	// A complete board is deterministic: no batching to report.
	if len(board) == engine.BoardSize {
		results, err := calc.Calculate(ctx, players, board)
		if err != nil {
			log.WithError(err).Warn("equity stream failed")
			return
		}
		final := equityResponse(&req, total, results)
		wsjson.Write(ctx, conn, streamMessage{Type: "result", Result: &final})
		conn.Close(websocket.StatusNormalClosure, "")
		return
	}

	agg := newStreamAggregate(len(players))
	for batch := 0; batch < streamBatches; batch++ {
		share := total / streamBatches
		if batch < total%streamBatches {
			share++
		}
		if share == 0 {
			continue
		}

		batchCalc := calc
		batchCalc.Iterations = share
		results, err := batchCalc.Calculate(ctx, players, board)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info("equity stream cancelled by client")
			} else {
				log.WithError(err).Warn("equity stream failed")
			}
			return
		}
		agg.add(results, share)

		msg := streamMessage{
			Type:       "progress",
			Completed:  agg.trials,
			Iterations: total,
			Players:    agg.byID(req.Players),
		}
		if err := wsjson.Write(ctx, conn, msg); err != nil {
			return
		}
	}

	final := equityResponse(&req, total, agg.results())
	final.Players = agg.byID(req.Players)
	if err := wsjson.Write(ctx, conn, streamMessage{Type: "result", Result: &final}); err != nil {
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

// streamAggregate merges batch percentages weighted by batch size. The
// percentages are per-trial means, so the weighted average over batches
// equals the estimate a single run of the same total would produce.
type streamAggregate struct {
	win, tie, equity []float64
	trials           int
}

func newStreamAggregate(players int) *streamAggregate {
	return &streamAggregate{
		win:    make([]float64, players),
		tie:    make([]float64, players),
		equity: make([]float64, players),
	}
}

func (a *streamAggregate) add(batch []engine.PlayerEquity, trials int) {
	w := float64(trials)
	for i, r := range batch {
		a.win[i] += r.WinPercentage * w
		a.tie[i] += r.TiePercentage * w
		a.equity[i] += r.EquityPercentage * w
	}
	a.trials += trials
}

func (a *streamAggregate) results() []engine.PlayerEquity {
	out := make([]engine.PlayerEquity, len(a.win))
	n := float64(a.trials)
	for i := range out {
		out[i] = engine.PlayerEquity{
			WinPercentage:    round2(a.win[i] / n),
			TiePercentage:    round2(a.tie[i] / n),
			EquityPercentage: round2(a.equity[i] / n),
		}
	}
	return out
}

func (a *streamAggregate) byID(players []models.EquityPlayer) map[string]models.PlayerResult {
	res := a.results()
	byID := make(map[string]models.PlayerResult, len(res))
	for i, p := range players {
		byID[p.ID] = models.PlayerResult{
			WinPercentage:    res[i].WinPercentage,
			TiePercentage:    res[i].TiePercentage,
			EquityPercentage: res[i].EquityPercentage,
		}
	}
	return byID
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
