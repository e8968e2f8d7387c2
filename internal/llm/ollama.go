// Package llm wraps the Ollama HTTP API. The client only transports
// prompts and responses; every prompt is built by the caller.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Sentinel errors for the failure modes callers distinguish.
var (
	ErrUnreachable   = errors.New("ollama unreachable")
	ErrTimeout       = errors.New("ollama request timed out")
	ErrModelNotFound = errors.New("ollama model not found")
)

const healthTimeout = 5 * time.Second

// Client talks to one Ollama server with one configured model.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
	log     *logrus.Entry
}

// NewClient creates a Client. timeout bounds generation requests; the
// health check uses its own short timeout.
func NewClient(baseURL, model string, timeout time.Duration, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: timeout},
		log: log.WithFields(logrus.Fields{
			"component": "llm",
			"model":     model,
		}),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends a prompt to /api/generate and returns the trimmed
// text response. The full prompt is the caller's responsibility.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: 0.7,
			TopP:        0.9,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	c.log.WithField("prompt_len", len(prompt)).Debug("sending generate request")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %q (pull it with: ollama pull %s)", ErrModelNotFound, c.model, c.model)
	}
	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama api error: %d - %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return strings.TrimSpace(out.Response), nil
}

// transportError maps connection-level failures onto the sentinel
// errors, keeping the underlying cause in the chain.
func (c *Client) transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w after %s: %v (the first request loads the model and can be slow; raise OLLAMA_TIMEOUT if it persists)",
			ErrTimeout, c.http.Timeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w at %s: %v (start it with: ollama serve)", ErrUnreachable, c.baseURL, err)
}

// Health describes the outcome of a health probe.
type Health struct {
	Status          string   `json:"status"`
	BaseURL         string   `json:"base_url"`
	ConfiguredModel string   `json:"configured_model"`
	AvailableModels []string `json:"available_models,omitempty"`
	ModelAvailable  bool     `json:"model_available"`
	Error           string   `json:"error,omitempty"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// CheckHealth probes /api/tags and reports whether the server responds
// and whether the configured model is installed. It never returns an
// error; failures are reported in the Health value.
func (c *Client) CheckHealth(ctx context.Context) Health {
	h := Health{
		Status:          "unhealthy",
		BaseURL:         c.baseURL,
		ConfiguredModel: c.model,
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		h.Error = err.Error()
		return h
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("health check failed")
		h.Error = err.Error()
		return h
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		h.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		return h
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		h.Error = fmt.Sprintf("decode tags response: %v", err)
		return h
	}

	h.Status = "healthy"
	h.Error = ""
	for _, m := range tags.Models {
		h.AvailableModels = append(h.AvailableModels, m.Name)
		if m.Name == c.model {
			h.ModelAvailable = true
		}
	}
	return h
}
