package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/commitmood/internal/analyze"
	"github.com/ppiankov/commitmood/internal/highlight"
	"github.com/ppiankov/commitmood/internal/model"
	"github.com/ppiankov/commitmood/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ worker.CommitProcessor = (*Pipeline)(nil)

type failingAnalyzer struct{}

func (failingAnalyzer) Name() string { return "failing" }
func (failingAnalyzer) Analyze(context.Context, string) (*model.Sentiment, error) {
	return nil, errors.New("model offline")
}

func lexiconPipeline(t *testing.T, kind model.AttributionKind) *Pipeline {
	t.Helper()
	a, err := analyze.NewLexiconAnalyzer(analyze.LexiconOptions{Negation: true})
	require.NoError(t, err)
	return NewPipeline(a, highlight.NewEngine(), kind, nil)
}

func highlighted(segs []model.Segment) map[string]model.Polarity {
	out := make(map[string]model.Polarity)
	for _, s := range segs {
		if s.Highlighted() {
			out[s.Text] = s.Polarity
		}
	}
	return out
}

func TestPipeline_Process(t *testing.T) {
	p := lexiconPipeline(t, model.AttributionMap)
	commit := model.Commit{
		SHA:     "0123456789abcdef",
		Message: "Fix broken login\n\nThe old flow was awful.\n\nGreat work everyone",
	}

	hc, err := p.Process(context.Background(), commit)
	require.NoError(t, err)

	assert.Equal(t, commit.SHA, hc.SHA)
	assert.Equal(t, model.AttributionMap, hc.AttributionKind)
	assert.Equal(t, "Fix broken login", model.JoinSegments(hc.Summary))
	assert.Equal(t, "The old flow was awful.\nGreat work everyone", model.JoinSegments(hc.Description))

	assert.Equal(t, map[string]model.Polarity{
		"Fix":    model.PolarityPositive,
		"broken": model.PolarityNegative,
	}, highlighted(hc.Summary))
	assert.Equal(t, map[string]model.Polarity{
		"awful": model.PolarityNegative,
		"Great": model.PolarityPositive,
	}, highlighted(hc.Description))

	assert.Equal(t, 2.0-1.0-3.0+3.0, hc.Sentiment.Score)
}

func TestPipeline_ListAttribution(t *testing.T) {
	p := lexiconPipeline(t, model.AttributionList)

	hc, err := p.Process(context.Background(), model.Commit{SHA: "a", Message: "good and not good"})
	require.NoError(t, err)

	// "good" is both positive and negative in the message; the list form favours positive.
	for _, s := range hc.Summary {
		if s.Text == "good" {
			assert.Equal(t, model.PolarityPositive, s.Polarity)
		}
	}
	assert.Empty(t, hc.Description)
}

func TestPipeline_MapAttributionLaterWins(t *testing.T) {
	p := lexiconPipeline(t, model.AttributionMap)

	hc, err := p.Process(context.Background(), model.Commit{SHA: "a", Message: "good and not good"})
	require.NoError(t, err)

	for _, s := range hc.Summary {
		if s.Text == "good" {
			assert.Equal(t, model.PolarityNegative, s.Polarity)
		}
	}
}

func TestPipeline_AnalyzerError(t *testing.T) {
	p := NewPipeline(failingAnalyzer{}, nil, model.AttributionMap, nil)

	_, err := p.Process(context.Background(), model.Commit{SHA: "a", Message: "good"})
	assert.ErrorContains(t, err, "model offline")

	_, _, err = p.HighlightText(context.Background(), "good")
	assert.Error(t, err)
}

func TestPipeline_HighlightText(t *testing.T) {
	p := lexiconPipeline(t, model.AttributionMap)

	s, segs, err := p.HighlightText(context.Background(), "Love this clean-up, no bugs")
	require.NoError(t, err)

	assert.Equal(t, "Love this clean-up, no bugs", model.JoinSegments(segs))
	assert.Equal(t, map[string]model.Polarity{
		"Love": model.PolarityPositive,
		"bugs": model.PolarityPositive,
	}, highlighted(segs), "negator flips bugs")
	assert.Equal(t, []string{"love", "bugs"}, s.Positive)
}

func TestNew_FromConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Dir = t.TempDir()
	cfg.Analyzer.AttributionKind = "list"

	p, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, model.AttributionList, p.kind)
	assert.Equal(t, "lexicon", p.Analyzer().Name())
	assert.NotNil(t, p.Engine())

	cfg.Analyzer.AttributionKind = "tree"
	_, err = New(cfg, nil)
	assert.Error(t, err)

	cfg.Analyzer.AttributionKind = "map"
	cfg.Analyzer.Provider = "nope"
	_, err = New(cfg, nil)
	assert.ErrorIs(t, err, analyze.ErrUnknownProvider)
}

func TestPipeline_Batch(t *testing.T) {
	p := lexiconPipeline(t, model.AttributionMap)
	commits := []model.Commit{
		{SHA: "1", Message: "great"},
		{SHA: "2", Message: "awful"},
		{SHA: "3", Message: "refactor"},
	}

	results := worker.NewBatchProcessor(p, 2).ProcessCommits(context.Background(), commits)
	ok := worker.Successful(results)
	require.Len(t, ok, 3)
	assert.Equal(t, model.PolarityPositive, ok[0].Sentiment.Polarity())
	assert.Equal(t, model.PolarityNegative, ok[1].Sentiment.Polarity())
	assert.Equal(t, model.PolarityNone, ok[2].Sentiment.Polarity())
}
