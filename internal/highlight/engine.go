package highlight

import (
	"regexp"

	"github.com/ppiankov/commitmood/internal/model"
)

// PatternCache stores compiled lexicon patterns.
// cache.PatternCache satisfies it.
type PatternCache interface {
	Get(key string) (*regexp.Regexp, bool)
	Set(key string, re *regexp.Regexp)
}

// Engine runs the matcher and classifier, optionally reusing compiled patterns
type Engine struct {
	patterns PatternCache
}

// Option configures an Engine
type Option func(*Engine)

// WithPatternCache reuses compiled patterns across calls with the same word set
func WithPatternCache(c PatternCache) Option {
	return func(e *Engine) {
		e.patterns = c
	}
}

// NewEngine creates an engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Matcher returns a matcher for words, from the cache when possible
func (e *Engine) Matcher(words []string) *Matcher {
	lexicon := normalizeLexicon(words)
	if len(lexicon) == 0 || e == nil || e.patterns == nil {
		return &Matcher{lexicon: lexicon, pattern: compilePattern(lexicon)}
	}

	key := lexiconKey(lexicon)
	if re, ok := e.patterns.Get(key); ok {
		return &Matcher{lexicon: lexicon, pattern: re}
	}

	re := compilePattern(lexicon)
	if re != nil {
		e.patterns.Set(key, re)
	}
	return &Matcher{lexicon: lexicon, pattern: re}
}

// Chunks runs only the matcher stage
func (e *Engine) Chunks(text string, words []string) []model.Chunk {
	if text == "" {
		return []model.Chunk{}
	}
	return e.Matcher(words).Split(text)
}

// Highlight splits text against the attribution's words and classifies the chunks.
// The concatenated segment texts always equal text.
func (e *Engine) Highlight(text string, attribution model.Attribution) []model.Segment {
	if text == "" {
		return []model.Segment{}
	}

	var words []string
	if attribution != nil {
		words = attribution.Words()
	}

	return Classify(e.Chunks(text, words), attribution)
}

// Highlight runs an engine without a pattern cache
func Highlight(text string, attribution model.Attribution) []model.Segment {
	return NewEngine().Highlight(text, attribution)
}
