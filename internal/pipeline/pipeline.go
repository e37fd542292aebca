// Package pipeline turns commits into highlighted, render-ready commits.
package pipeline

import (
	"context"
	"fmt"

	"github.com/ppiankov/commitmood/internal/analyze"
	"github.com/ppiankov/commitmood/internal/cache"
	"github.com/ppiankov/commitmood/internal/highlight"
	"github.com/ppiankov/commitmood/internal/logging"
	"github.com/ppiankov/commitmood/internal/model"
	"github.com/ppiankov/commitmood/internal/source"
)

// Pipeline analyzes a message once and highlights its summary and description
type Pipeline struct {
	analyzer analyze.Analyzer
	engine   *highlight.Engine
	kind     model.AttributionKind
	logger   logging.Logger
}

// NewPipeline assembles a pipeline from its parts
func NewPipeline(analyzer analyze.Analyzer, engine *highlight.Engine, kind model.AttributionKind, logger logging.Logger) *Pipeline {
	if engine == nil {
		engine = highlight.NewEngine()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Pipeline{
		analyzer: analyzer,
		engine:   engine,
		kind:     kind,
		logger:   logger,
	}
}

// New builds the configured analyzer and a pattern-caching engine
func New(cfg *model.Config, logger logging.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	kind, err := model.ParseAttributionKind(cfg.Analyzer.AttributionKind)
	if err != nil {
		return nil, err
	}

	analyzer, err := analyze.New(cfg, logger.Named("analyzer"))
	if err != nil {
		return nil, err
	}

	engine := highlight.NewEngine(highlight.WithPatternCache(cache.NewPatternCache(cfg.Cache.PatternTTL)))

	return NewPipeline(analyzer, engine, kind, logger.Named("pipeline")), nil
}

// Analyzer returns the analyzer in use
func (p *Pipeline) Analyzer() analyze.Analyzer { return p.analyzer }

// Engine returns the highlight engine in use
func (p *Pipeline) Engine() *highlight.Engine { return p.engine }

// Process analyzes commit.Message and highlights both message parts with the
// same attribution
func (p *Pipeline) Process(ctx context.Context, commit model.Commit) (*model.HighlightedCommit, error) {
	sentiment, err := p.analyzer.Analyze(ctx, commit.Message)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	attribution := sentiment.Attribution(p.kind)
	summary, description := source.SplitMessage(commit.Message)

	hc := &model.HighlightedCommit{
		Commit:          commit,
		Sentiment:       sentiment,
		AttributionKind: p.kind,
		Summary:         p.engine.Highlight(summary, attribution),
		Description:     p.engine.Highlight(description, attribution),
	}

	p.logger.Debug("commit processed",
		logging.String("sha", commit.ShortSHA()),
		logging.Float64("score", sentiment.Score),
		logging.Int("words", len(attribution.Words())))

	return hc, nil
}

// HighlightText analyzes text and highlights it as a single block
func (p *Pipeline) HighlightText(ctx context.Context, text string) (*model.Sentiment, []model.Segment, error) {
	sentiment, err := p.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, nil, fmt.Errorf("analyze: %w", err)
	}
	return sentiment, p.engine.Highlight(text, sentiment.Attribution(p.kind)), nil
}
