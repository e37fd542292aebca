package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ppiankov/commitmood/internal/logging"
	"github.com/ppiankov/commitmood/internal/model"
	"github.com/ppiankov/commitmood/internal/worker"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func chatServer(t *testing.T, content string, calls *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.NotNil(t, req.ResponseFormat) {
			assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
		}
		assert.Len(t, req.Messages, 2)

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:    "chatcmpl-123",
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			}},
			Usage: openai.Usage{TotalTokens: 42},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIAnalyzer_Analyze(t *testing.T) {
	server := chatServer(t, `{"scores":{"Fix":2,"broken":-3,"unicorn":5,"tests":0,"bad":"x"}}`, nil)

	core, logs := observer.New(zapcore.DebugLevel)
	a, err := NewOpenAIAnalyzer(model.LLMConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5,
	}, worker.NewLimiter(100, 10), logging.NewLoggerFromCore(core))
	require.NoError(t, err)

	s, err := a.Analyze(context.Background(), "Fix broken tests, fix it")
	require.NoError(t, err)

	assert.Equal(t, "openai", s.Analyzer)
	assert.Equal(t, []model.WordScore{
		{Word: "fix", Score: 2},
		{Word: "broken", Score: -3},
		{Word: "fix", Score: 2},
	}, s.Calculation)
	assert.Equal(t, 1.0, s.Score)
	assert.Equal(t, []string{"fix"}, s.Positive)
	assert.Equal(t, []string{"broken"}, s.Negative)

	leaks := logs.FilterMessageSnippet("attribution leak").All()
	require.Len(t, leaks, 1)
	assert.Equal(t, "unicorn", leaks[0].ContextMap()["word"])
}

func TestOpenAIAnalyzer_EmptyTextSkipsRequest(t *testing.T) {
	var calls int32
	server := chatServer(t, `{"scores":{}}`, &calls)

	a, err := NewOpenAIAnalyzer(model.LLMConfig{APIKey: "test-key", BaseURL: server.URL}, nil, nil)
	require.NoError(t, err)

	s, err := a.Analyze(context.Background(), "  \n ")
	require.NoError(t, err)
	assert.Zero(t, s.Score)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestOpenAIAnalyzer_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	a, err := NewOpenAIAnalyzer(model.LLMConfig{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil, nil)
	require.NoError(t, err)

	_, err = a.Analyze(context.Background(), "great")
	assert.ErrorContains(t, err, "OpenAI API error")
}

func TestOpenAIAnalyzer_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "x"})
	}))
	defer server.Close()

	a, err := NewOpenAIAnalyzer(model.LLMConfig{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil, nil)
	require.NoError(t, err)

	_, err = a.Analyze(context.Background(), "great")
	assert.ErrorContains(t, err, "no response")
}

func TestOpenAIAnalyzer_Malformed(t *testing.T) {
	server := chatServer(t, "I think this is positive", nil)

	a, err := NewOpenAIAnalyzer(model.LLMConfig{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil, nil)
	require.NoError(t, err)

	_, err = a.Analyze(context.Background(), "great")
	assert.ErrorContains(t, err, "decode attribution")
}

func TestNewOpenAIAnalyzer_Config(t *testing.T) {
	_, err := NewOpenAIAnalyzer(model.LLMConfig{}, nil, nil)
	assert.Error(t, err)

	a, err := NewOpenAIAnalyzer(model.LLMConfig{BaseURL: "http://localhost:11434/v1/"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/v1", a.endpoint)
	assert.Equal(t, openai.GPT4oMini, a.config.Model)
	assert.Equal(t, "openai:gpt-4o-mini@http://localhost:11434/v1", a.Fingerprint())

	a, err = NewOpenAIAnalyzer(model.LLMConfig{APIKey: "k", Model: "gpt-4o"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultOpenAIEndpoint, a.endpoint)
}

func TestParseScores(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[string]float64
	}{
		{"wrapped", `{"scores":{"good":3}}`, map[string]float64{"good": 3}},
		{"bare", `{"good":3,"bad":-2}`, map[string]float64{"good": 3, "bad": -2}},
		{"fenced", "```json\n{\"scores\":{\"good\":3}}\n```", map[string]float64{"good": 3}},
		{"clamped", `{"scores":{"amazing":9,"awful":-12}}`, map[string]float64{"amazing": 5, "awful": -5}},
		{"skips junk", `{"scores":{"ok":0,"meh":"x"," ":1}}`, map[string]float64{}},
		{"empty", `{"scores":{}}`, map[string]float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseScores(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseScores(`["good"]`)
	assert.Error(t, err)
	_, err = parseScores(`{"scores":["good"]}`)
	assert.Error(t, err)
}

func TestProxyFunc(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://api.openai.com/v1", nil)

	u, err := proxyFunc("http://proxy:3128", "http://secure-proxy:3128")(req)
	require.NoError(t, err)
	assert.Equal(t, "secure-proxy:3128", u.Host)

	u, err = proxyFunc("http://proxy:3128", "")(req)
	require.NoError(t, err)
	assert.Equal(t, "proxy:3128", u.Host)
}
