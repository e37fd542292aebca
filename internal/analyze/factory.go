package analyze

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/commitmood/internal/cache"
	"github.com/ppiankov/commitmood/internal/logging"
	"github.com/ppiankov/commitmood/internal/model"
	"github.com/ppiankov/commitmood/internal/worker"
)

// ErrUnknownProvider is returned for an unsupported analyzer.provider
var ErrUnknownProvider = errors.New("unknown analyzer provider")

// New builds the configured analyzer, wrapped in the analysis cache when enabled
func New(cfg *model.Config, logger logging.Logger) (Analyzer, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	var (
		a   Analyzer
		err error
	)
	switch strings.ToLower(cfg.Analyzer.Provider) {
	case "", "lexicon":
		a, err = NewLexiconAnalyzer(LexiconOptions{
			Path:     cfg.Analyzer.LexiconPath,
			Negation: cfg.Analyzer.Negation,
		})
	case "openai":
		llm := cfg.LLM
		if llm.APIKey == "" {
			llm.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		limiter := worker.NewLimiter(llm.RequestsPerSecond, llm.Burst)
		a, err = NewOpenAIAnalyzer(llm, limiter, logger.Named("openai"))
	case "ollama":
		limiter := worker.NewLimiter(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst)
		a, err = NewOllamaAnalyzer(cfg.LLM, limiter, logger.Named("ollama"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Analyzer.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s analyzer: %w", cfg.Analyzer.Provider, err)
	}

	if !cfg.Cache.Enabled {
		return a, nil
	}

	var store cache.Cache
	if cfg.Cache.Dir != "" {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	} else {
		store = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
	}
	return NewCachedAnalyzer(a, store, logger.Named("cache")), nil
}
