package analyze

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/commitmood/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLexicon(t *testing.T, opts LexiconOptions) *LexiconAnalyzer {
	t.Helper()
	a, err := NewLexiconAnalyzer(opts)
	require.NoError(t, err)
	return a
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"don't", "break", "things", "ok"}, Tokenize("Don't break (things), OK?"))
	assert.Equal(t, []string{"no-op", "fix", "für", "42"}, Tokenize("no-op\nfix: für #42"))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize(" .,;! "))
}

func TestLexiconAnalyzer_Scores(t *testing.T) {
	a := newLexicon(t, LexiconOptions{Negation: true})

	s, err := a.Analyze(context.Background(), "Fix the broken build")
	require.NoError(t, err)

	assert.Equal(t, "lexicon", s.Analyzer)
	assert.Equal(t, []string{"fix", "the", "broken", "build"}, s.Tokens)
	assert.Equal(t, []model.WordScore{{Word: "fix", Score: 2}, {Word: "broken", Score: -1}}, s.Calculation)
	assert.Equal(t, 1.0, s.Score)
	assert.Equal(t, 0.25, s.Comparative)
	assert.Equal(t, []string{"fix", "broken"}, s.Words)
	assert.Equal(t, []string{"fix"}, s.Positive)
	assert.Equal(t, []string{"broken"}, s.Negative)
}

func TestLexiconAnalyzer_RepeatedWords(t *testing.T) {
	a := newLexicon(t, LexiconOptions{})

	s, err := a.Analyze(context.Background(), "fix fix")
	require.NoError(t, err)

	assert.Len(t, s.Calculation, 2)
	assert.Equal(t, 4.0, s.Score)
	assert.Equal(t, []string{"fix"}, s.Words)
	assert.Equal(t, []string{"fix"}, s.Positive)
}

func TestLexiconAnalyzer_Negation(t *testing.T) {
	on := newLexicon(t, LexiconOptions{Negation: true})
	off := newLexicon(t, LexiconOptions{Negation: false})

	s, err := on.Analyze(context.Background(), "this is not good")
	require.NoError(t, err)
	assert.Equal(t, -3.0, s.Score)
	assert.Equal(t, []string{"good"}, s.Negative)
	assert.Empty(t, s.Positive)
	polarity, _, _ := s.Attribution(model.AttributionMap).Lookup("good")
	assert.Equal(t, model.PolarityNegative, polarity)

	s, err = off.Analyze(context.Background(), "this is not good")
	require.NoError(t, err)
	assert.Equal(t, 3.0, s.Score)

	assert.NotEqual(t, on.Fingerprint(), off.Fingerprint())
}

func TestLexiconAnalyzer_Empty(t *testing.T) {
	s, err := newLexicon(t, LexiconOptions{}).Analyze(context.Background(), "")
	require.NoError(t, err)

	assert.Zero(t, s.Score)
	assert.Zero(t, s.Comparative)
	assert.NotNil(t, s.Tokens)
	assert.NotNil(t, s.Calculation)
	assert.Equal(t, model.PolarityNone, s.Polarity())
}

func TestLexiconAnalyzer_UserLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Broken: -4\nshiny: 2\n"), 0o644))

	base := newLexicon(t, LexiconOptions{})
	a := newLexicon(t, LexiconOptions{Path: path})
	assert.Equal(t, base.Size()+1, a.Size())
	assert.NotEqual(t, base.Fingerprint(), a.Fingerprint())

	s, err := a.Analyze(context.Background(), "shiny but broken")
	require.NoError(t, err)
	assert.Equal(t, []model.WordScore{{Word: "shiny", Score: 2}, {Word: "broken", Score: -4}}, s.Calculation)
}

func TestLexiconAnalyzer_BadUserLexicon(t *testing.T) {
	_, err := NewLexiconAnalyzer(LexiconOptions{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "zero.yaml")
	require.NoError(t, os.WriteFile(path, []byte("meh: 0\n"), 0o644))
	_, err = NewLexiconAnalyzer(LexiconOptions{Path: path})
	assert.ErrorContains(t, err, "meh")
}

func TestParseLexicon(t *testing.T) {
	words, err := ParseLexicon([]byte("Great: 3\n'  ': 1\nbad: -2.5\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"great": 3, "bad": -2.5}, words)

	_, err = ParseLexicon([]byte("- not a map"))
	assert.Error(t, err)
}

func TestDefaultLexicon_Valid(t *testing.T) {
	words, err := ParseLexicon(defaultLexicon)
	require.NoError(t, err)
	assert.Greater(t, len(words), 100)
	for w, s := range words {
		assert.True(t, s >= -5 && s <= 5, "%s out of range", w)
	}
}

func TestLexiconAnalyzer_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newLexicon(t, LexiconOptions{}).Analyze(ctx, "good")
	assert.ErrorIs(t, err, context.Canceled)
}
