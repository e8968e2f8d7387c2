// Package httpapi serves the analysis API. The handlers deliver
// user-defined range data, run equity simulations, and forward prompts
// to the LLM; none of them embed poker strategy.
package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/RonakMehtaa/pokeranalysis/engine"
	"github.com/RonakMehtaa/pokeranalysis/internal/config"
	"github.com/RonakMehtaa/pokeranalysis/internal/llm"
	"github.com/RonakMehtaa/pokeranalysis/internal/prompts"
	"github.com/RonakMehtaa/pokeranalysis/internal/ranges"
)

// Version reported by the root and health endpoints.
const Version = "1.0.0"

// LLM is the surface of the Ollama client the handlers need. Tests
// substitute a fake.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
	CheckHealth(ctx context.Context) llm.Health
	Model() string
}

// Server wires the handlers to their dependencies.
type Server struct {
	log     *logrus.Logger
	ranges  *ranges.Loader
	llm     LLM
	prompts *prompts.Store

	corsOrigins []string
	wsOrigins   []string

	defaultIterations int
	minIterations     int
	maxIterations     int
	equityWorkers     int
}

// NewServer builds a Server from loaded dependencies.
func NewServer(cfg *config.Config, log *logrus.Logger, loader *ranges.Loader, client LLM, store *prompts.Store) *Server {
	workers := cfg.EquityWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Server{
		log:               log,
		ranges:            loader,
		llm:               client,
		prompts:           store,
		corsOrigins:       cfg.CORSOrigins,
		wsOrigins:         hostPatterns(cfg.CORSOrigins),
		defaultIterations: cfg.EquityDefaultIterations,
		minIterations:     cfg.EquityMinIterations,
		maxIterations:     cfg.EquityMaxIterations,
		equityWorkers:     workers,
	}
}

// hostPatterns reduces CORS origins to the host:port patterns the
// websocket accept check expects.
func hostPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		} else {
			patterns = append(patterns, o)
		}
	}
	return patterns
}

// Routes returns the complete handler tree with middleware applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/ranges", s.handleRangesMetadata)
	mux.HandleFunc("GET /api/range", s.handleRange)
	mux.HandleFunc("POST /api/decision/preflop", s.handlePreflopDecision)

	mux.HandleFunc("GET /api/llm/health", s.handleLLMHealth)
	mux.HandleFunc("POST /api/llm/analyze", s.handleLLMAnalyze)

	mux.HandleFunc("POST /api/equity/calculate", s.handleEquityCalculate)
	mux.HandleFunc("GET /api/equity/stream", s.handleEquityStream)

	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analyze/postflop", s.handleAnalyzePostflop)
	mux.HandleFunc("POST /api/chat/hand", s.handleChatHand)

	return s.withRequestID(s.withLogging(s.withCORS(mux)))
}

// calculator builds the engine calculator for a request, applying the
// server default when the client left iterations unset.
func (s *Server) calculator(iterations int) engine.Calculator {
	if iterations <= 0 {
		iterations = s.defaultIterations
	}
	return engine.Calculator{
		Iterations: iterations,
		Workers:    s.equityWorkers,
	}
}
