package analyze

import (
	"context"
	"encoding/json"

	"github.com/ppiankov/commitmood/internal/cache"
	"github.com/ppiankov/commitmood/internal/logging"
	"github.com/ppiankov/commitmood/internal/model"
)

// CachedAnalyzer memoizes another analyzer's results
type CachedAnalyzer struct {
	next   Analyzer
	store  cache.Cache
	logger logging.Logger
}

// NewCachedAnalyzer wraps next with store
func NewCachedAnalyzer(next Analyzer, store cache.Cache, logger logging.Logger) *CachedAnalyzer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CachedAnalyzer{next: next, store: store, logger: logger}
}

// Name returns the wrapped analyzer's name
func (a *CachedAnalyzer) Name() string { return a.next.Name() }

// Analyze returns the cached result for text or computes and stores it
func (a *CachedAnalyzer) Analyze(ctx context.Context, text string) (*model.Sentiment, error) {
	key := a.key(text)

	if data, ok := a.store.Get(key); ok {
		var s model.Sentiment
		if err := json.Unmarshal(data, &s); err == nil {
			a.logger.Debug("analysis cache hit", logging.String("analyzer", a.next.Name()))
			return &s, nil
		}
		a.logger.Warn("discarding undecodable cache entry", logging.String("analyzer", a.next.Name()))
		_ = a.store.Delete(key)
	}

	s, err := a.next.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(s)
	if err != nil {
		a.logger.Warn("encode analysis for cache", logging.Err(err))
		return s, nil
	}
	if err := a.store.Set(key, data, 0); err != nil {
		a.logger.Warn("write analysis cache", logging.Err(err))
	}
	return s, nil
}

func (a *CachedAnalyzer) key(text string) string {
	id := a.next.Name()
	if fp, ok := a.next.(Fingerprinter); ok {
		id = fp.Fingerprint()
	}
	return cache.Key(a.next.Name(), id, text)
}
