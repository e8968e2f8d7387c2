// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of the analysis service. Values come from
// the environment; a .env file loaded by main can provide them during
// development.
type Config struct {
	Addr        string   `env:"POKERANALYSIS_ADDR" envDefault:":8000"`
	LogLevel    string   `env:"POKERANALYSIS_LOG_LEVEL" envDefault:"info"`
	CORSOrigins []string `env:"POKERANALYSIS_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173,http://localhost:3005"`

	RangesDir  string `env:"POKERANALYSIS_RANGES_DIR" envDefault:"data/ranges"`
	PromptsDir string `env:"POKERANALYSIS_PROMPTS_DIR" envDefault:"prompts"`

	OllamaBaseURL string        `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaModel   string        `env:"OLLAMA_MODEL" envDefault:"llama3.2"`
	OllamaTimeout time.Duration `env:"OLLAMA_TIMEOUT" envDefault:"120s"`

	// Equity simulation bounds. Workers 0 lets the handler pick a value
	// based on available CPUs.
	EquityDefaultIterations int `env:"POKERANALYSIS_EQUITY_DEFAULT_ITERATIONS" envDefault:"20000"`
	EquityMinIterations     int `env:"POKERANALYSIS_EQUITY_MIN_ITERATIONS" envDefault:"1000"`
	EquityMaxIterations     int `env:"POKERANALYSIS_EQUITY_MAX_ITERATIONS" envDefault:"100000"`
	EquityWorkers           int `env:"POKERANALYSIS_EQUITY_WORKERS" envDefault:"0"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
