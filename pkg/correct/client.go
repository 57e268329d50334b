package correct

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
	"syscall"
	"time"

	"ocr-refine/pkg/config"
	"ocr-refine/pkg/constants"
	"ocr-refine/pkg/interfaces"
	"ocr-refine/pkg/logger"
	"ocr-refine/pkg/types"
)

// Client corrects OCR text through a local Ollama-compatible server.
//
// Correct never returns an error: on any failure the result degrades to
// the original text with Success=false, so callers always have usable
// text.
type Client struct {
	// Host is the server base URL, e.g. "http://localhost:11434".
	Host string

	// Model is the generation model name sent with each request.
	Model string

	// PromptTemplate must contain a {text} placeholder.
	PromptTemplate string

	// MaxRetries caps the number of requests per Correct call.
	MaxRetries int

	// Timeout bounds a single generation request.
	Timeout time.Duration

	// RetryDelay is the pause between retryable attempts.
	RetryDelay time.Duration

	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a correction client with default retry and timeout
// settings.
func NewClient(host, model string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.DefaultLogger()
	}
	return &Client{
		Host:           strings.TrimRight(host, "/"),
		Model:          model,
		PromptTemplate: config.DefaultPromptTemplate,
		MaxRetries:     constants.DefaultMaxRetries,
		Timeout:        constants.DefaultCorrectionTimeout,
		RetryDelay:     constants.DefaultRetryDelay,
		httpClient:     &http.Client{},
		logger:         log,
	}
}

// NewClientFromConfig creates a correction client wired from application
// configuration.
func NewClientFromConfig(cfg *config.Config, log *logger.Logger) *Client {
	client := NewClient(cfg.OllamaHost, cfg.OllamaModel, log)
	client.PromptTemplate = cfg.PromptTemplate
	client.MaxRetries = cfg.MaxRetries
	client.Timeout = cfg.CorrectionTimeout()
	return client
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// outcome classifies a single correction attempt.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeRetry
	outcomeFatal
)

// attemptResult carries the classification of one attempt together with
// the corrected text (on success) or the failure message.
type attemptResult struct {
	outcome outcome
	text    string
	message string
}

// Correct sends text through the correction model.
//
// Empty or whitespace-only input short-circuits without any request.
// Non-200 responses and timeouts are retried up to MaxRetries with
// RetryDelay between attempts; a refused connection fails immediately.
func (c *Client) Correct(ctx context.Context, text string) types.CorrectionResult {
	if strings.TrimSpace(text) == "" {
		return types.CorrectionResult{
			OriginalText:  text,
			CorrectedText: text,
			Success:       false,
			Error:         "empty text",
		}
	}

	prompt := strings.ReplaceAll(c.PromptTemplate, "{text}", text)

	for attempt := 1; attempt <= c.MaxRetries; attempt++ {
		c.logger.Debug("Correction attempt %d/%d", attempt, c.MaxRetries)

		result := c.attempt(ctx, prompt)
		switch result.outcome {
		case outcomeSuccess:
			return types.CorrectionResult{
				OriginalText:  text,
				CorrectedText: result.text,
				Success:       true,
				Model:         c.Model,
			}
		case outcomeFatal:
			c.logger.Error("Correction server unreachable at %s", c.Host)
			return c.failure(text, result.message)
		case outcomeRetry:
			c.logger.Warn("Correction attempt %d/%d failed: %s",
				attempt, c.MaxRetries, result.message)
			if attempt == c.MaxRetries {
				return c.failure(text, result.message)
			}
		}

		time.Sleep(c.RetryDelay)
	}

	return c.failure(text, "max retries exceeded")
}

// CorrectBatch corrects a slice of texts sequentially.
func (c *Client) CorrectBatch(ctx context.Context, texts []string) []types.CorrectionResult {
	results := make([]types.CorrectionResult, 0, len(texts))
	for i, text := range texts {
		c.logger.Progress("🔁", "Correcting text %d/%d", i+1, len(texts))
		results = append(results, c.Correct(ctx, text))
	}
	return results
}

// attempt performs one generation request and classifies its outcome.
func (c *Client) attempt(ctx context.Context, prompt string) attemptResult {
	body, err := json.Marshal(generateRequest{
		Model:       c.Model,
		Prompt:      prompt,
		Stream:      false,
		Temperature: constants.DefaultTemperature,
	})
	if err != nil {
		return attemptResult{outcome: outcomeFatal, message: err.Error()}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost,
		c.Host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return attemptResult{outcome: outcomeFatal, message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return attemptResult{outcome: outcomeRetry, message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return attemptResult{
			outcome: outcomeRetry,
			message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data))),
		}
	}

	var gen generateResponse
	if err := json.Unmarshal(data, &gen); err != nil {
		return attemptResult{
			outcome: outcomeRetry,
			message: fmt.Sprintf("invalid response body: %v", err),
		}
	}

	return attemptResult{outcome: outcomeSuccess, text: strings.TrimSpace(gen.Response)}
}

// classifyTransportError maps request errors onto retry semantics: a
// refused connection is fatal, a timeout is retryable.
func classifyTransportError(err error) attemptResult {
	if errors.Is(err, syscall.ECONNREFUSED) ||
		strings.Contains(err.Error(), "connection refused") {
		return attemptResult{outcome: outcomeFatal, message: "server unreachable"}
	}

	var netErr net.Error
	if (errors.As(err, &netErr) && netErr.Timeout()) ||
		errors.Is(err, context.DeadlineExceeded) {
		return attemptResult{outcome: outcomeRetry, message: "request timeout"}
	}

	return attemptResult{outcome: outcomeRetry, message: err.Error()}
}

func (c *Client) failure(text, message string) types.CorrectionResult {
	return types.CorrectionResult{
		OriginalText:  text,
		CorrectedText: text,
		Success:       false,
		Model:         c.Model,
		Error:         message,
	}
}

// Ping checks server liveness via the tags endpoint. It does not affect
// Correct's control flow.
func (c *Client) Ping(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, constants.DefaultPingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.Host+"/api/tags", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("correction server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("correction server returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// Models returns the model names the server reports as installed.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, constants.DefaultPingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.Host+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("correction server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("correction server returned HTTP %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("invalid tags response: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, model := range tags.Models {
		names = append(names, model.Name)
	}
	return names, nil
}

// WaitForServer polls the liveness endpoint once per second until the
// server responds or the timeout elapses.
func (c *Client) WaitForServer(ctx context.Context, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if c.Ping(ctx) == nil {
			return true
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			return false
		}
		time.Sleep(time.Second)
	}
}

var _ interfaces.Corrector = (*Client)(nil)
