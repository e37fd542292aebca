// Package analyze scores commit messages and reports which words drove the score.
package analyze

import (
	"context"
	"strings"
	"unicode"

	"github.com/ppiankov/commitmood/internal/model"
)

// Analyzer scores one message
type Analyzer interface {
	// Name returns the analyzer name ("lexicon", "openai")
	Name() string

	// Analyze returns the score and word attribution for text
	Analyze(ctx context.Context, text string) (*model.Sentiment, error)
}

// Fingerprinter is implemented by analyzers whose output depends on settings
// beyond their name; the fingerprint becomes part of the analysis cache key.
type Fingerprinter interface {
	Fingerprint() string
}

// Tokenize lowercases text and splits it into word tokens.
// Letters, digits, apostrophes and hyphens are kept; everything else separates tokens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-')
	})
}

// buildSentiment fills the derived fields from an ordered calculation
func buildSentiment(name string, tokens []string, calculation []model.WordScore) *model.Sentiment {
	s := &model.Sentiment{
		Analyzer:    name,
		Tokens:      tokens,
		Words:       []string{},
		Positive:    []string{},
		Negative:    []string{},
		Calculation: calculation,
	}
	if s.Tokens == nil {
		s.Tokens = []string{}
	}
	if s.Calculation == nil {
		s.Calculation = []model.WordScore{}
	}

	seen := make(map[string]bool)
	positive := make(map[string]bool)
	negative := make(map[string]bool)
	for _, ws := range calculation {
		s.Score += ws.Score
		if !seen[ws.Word] {
			seen[ws.Word] = true
			s.Words = append(s.Words, ws.Word)
		}
		switch {
		case ws.Score > 0 && !positive[ws.Word]:
			positive[ws.Word] = true
			s.Positive = append(s.Positive, ws.Word)
		case ws.Score < 0 && !negative[ws.Word]:
			negative[ws.Word] = true
			s.Negative = append(s.Negative, ws.Word)
		}
	}

	if len(tokens) > 0 {
		s.Comparative = s.Score / float64(len(tokens))
	}

	return s
}
