package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/commitmood/internal/logging"
	"github.com/ppiankov/commitmood/internal/model"
	"github.com/ppiankov/commitmood/internal/worker"
)

const defaultOllamaEndpoint = "http://localhost:11434"

// OllamaAnalyzer asks a local Ollama model for word attribution
type OllamaAnalyzer struct {
	httpClient *http.Client
	config     model.LLMConfig
	endpoint   string
	limiter    *worker.Limiter
	logger     logging.Logger
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Format  string        `json:"format,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaAnalyzer creates the analyzer. The model must name a pulled
// Ollama model such as llama3.1:8b.
func NewOllamaAnalyzer(config model.LLMConfig, limiter *worker.Limiter, logger logging.Logger) (*OllamaAnalyzer, error) {
	if config.Model == "" {
		return nil, errors.New("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 500
	}
	if config.Timeout == 0 {
		config.Timeout = 60 // local models load slowly
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	endpoint := defaultOllamaEndpoint
	if config.BaseURL != "" {
		endpoint = strings.TrimRight(config.BaseURL, "/")
	}

	return &OllamaAnalyzer{
		httpClient: newHTTPClient(config.HTTPProxy, config.HTTPSProxy, time.Duration(config.Timeout)*time.Second),
		config:     config,
		endpoint:   endpoint,
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// Name returns "ollama"
func (a *OllamaAnalyzer) Name() string { return "ollama" }

// Fingerprint identifies the model and endpoint
func (a *OllamaAnalyzer) Fingerprint() string {
	return "ollama:" + a.config.Model + "@" + a.endpoint
}

// Analyze requests attribution for text and keeps only words present in it
func (a *OllamaAnalyzer) Analyze(ctx context.Context, text string) (*model.Sentiment, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return buildSentiment(a.Name(), tokens, nil), nil
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, a.endpoint); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	resp, err := a.generate(ctx, ollamaRequest{
		Model:  a.config.Model,
		Prompt: text,
		System: attributionPrompt,
		Format: "json",
		Stream: false,
		Options: ollamaOptions{
			Temperature: 0,
			NumPredict:  a.config.MaxTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	scores, err := parseScores(resp.Response)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("attribution received",
		logging.String("model", resp.Model),
		logging.Int("words", len(scores)),
		logging.Int("tokens_used", resp.PromptEvalCount+resp.EvalCount))

	return attribute(a.Name(), tokens, scores, a.logger), nil
}

// generate posts a non-streaming request to /api/generate
func (a *OllamaAnalyzer) generate(ctx context.Context, apiReq ollamaRequest) (*ollamaResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &resp, nil
}
