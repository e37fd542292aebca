package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ppiankov/commitmood/internal/logging"
	"github.com/ppiankov/commitmood/internal/model"
	"github.com/ppiankov/commitmood/internal/worker"
	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1"

const attributionPrompt = `You score the sentiment of git commit messages.
Return a JSON object {"scores": {"word": score}} listing only words that appear in the message
and carry sentiment. Scores are integers from -5 (very negative) to 5 (very positive).
Use lowercase words exactly as they appear. Omit neutral words. Return {"scores": {}} if none.`

// OpenAIAnalyzer asks an OpenAI-compatible chat model for word attribution
type OpenAIAnalyzer struct {
	client   *openai.Client
	config   model.LLMConfig
	endpoint string
	limiter  *worker.Limiter
	logger   logging.Logger
}

// NewOpenAIAnalyzer creates the analyzer. An API key is required unless a
// custom base URL points at a server that does not need one.
func NewOpenAIAnalyzer(config model.LLMConfig, limiter *worker.Limiter, logger logging.Logger) (*OpenAIAnalyzer, error) {
	if config.APIKey == "" && config.BaseURL == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 500
	}
	if config.Timeout == 0 {
		config.Timeout = 30
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	endpoint := defaultOpenAIEndpoint
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
		endpoint = clientConfig.BaseURL
	}
	clientConfig.HTTPClient = newHTTPClient(config.HTTPProxy, config.HTTPSProxy, time.Duration(config.Timeout)*time.Second)

	return &OpenAIAnalyzer{
		client:   openai.NewClientWithConfig(clientConfig),
		config:   config,
		endpoint: endpoint,
		limiter:  limiter,
		logger:   logger,
	}, nil
}

// Name returns "openai"
func (a *OpenAIAnalyzer) Name() string { return "openai" }

// Fingerprint identifies the model and endpoint
func (a *OpenAIAnalyzer) Fingerprint() string {
	return "openai:" + a.config.Model + "@" + a.endpoint
}

// Analyze requests attribution for text and keeps only words present in it
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, text string) (*model.Sentiment, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return buildSentiment(a.Name(), tokens, nil), nil
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, a.endpoint); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.config.Timeout)*time.Second)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: attributionPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   a.config.MaxTokens,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	scores, err := parseScores(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("attribution received",
		logging.String("model", a.config.Model),
		logging.Int("words", len(scores)),
		logging.Int("tokens_used", resp.Usage.TotalTokens))

	return attribute(a.Name(), tokens, scores, a.logger), nil
}

// attribute keeps the scored words that occur in tokens and orders the
// calculation by token position
func attribute(name string, tokens []string, scores map[string]float64, logger logging.Logger) *model.Sentiment {
	present := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		present[tok] = true
	}
	for word := range scores {
		if !present[word] {
			logger.Warn("attribution leak: word not in message",
				logging.String("analyzer", name),
				logging.String("word", word))
			delete(scores, word)
		}
	}

	var calculation []model.WordScore
	for _, tok := range tokens {
		if score, ok := scores[tok]; ok {
			calculation = append(calculation, model.WordScore{Word: tok, Score: score})
		}
	}
	return buildSentiment(name, tokens, calculation)
}

// parseScores decodes the model reply, tolerating a bare {"word": n} object
// and code fences. Non-numeric, zero and non-finite scores are dropped and
// the rest are clamped to [-5, 5].
func parseScores(content string) (map[string]float64, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decode attribution: %w", err)
	}
	if nested, ok := raw["scores"]; ok {
		raw = nil
		if err := json.Unmarshal(nested, &raw); err != nil {
			return nil, fmt.Errorf("decode attribution scores: %w", err)
		}
	}

	scores := make(map[string]float64, len(raw))
	for word, value := range raw {
		var score float64
		if err := json.Unmarshal(value, &score); err != nil {
			continue
		}
		if score == 0 || math.IsNaN(score) || math.IsInf(score, 0) {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(word))
		if key == "" {
			continue
		}
		scores[key] = math.Max(-5, math.Min(5, score))
	}
	return scores, nil
}
