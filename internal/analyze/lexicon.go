package analyze

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/commitmood/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed data/lexicon.yaml
var defaultLexicon []byte

// negators flip the score of the token that follows them
var negators = map[string]bool{
	"not": true, "no": true, "never": true, "without": true, "cannot": true,
	"don't": true, "dont": true, "doesn't": true, "doesnt": true,
	"didn't": true, "didnt": true, "isn't": true, "isnt": true,
	"wasn't": true, "wasnt": true, "aren't": true, "arent": true,
	"won't": true, "wont": true, "can't": true, "cant": true,
	"shouldn't": true, "couldn't": true, "wouldn't": true,
}

// LexiconAnalyzer scores tokens against a word -> score table
type LexiconAnalyzer struct {
	words    map[string]float64
	negation bool
	digest   string
}

// LexiconOptions configures NewLexiconAnalyzer
type LexiconOptions struct {
	// Path to an extra YAML lexicon; its entries override the defaults
	Path string

	// Negation flips a word's score when a negator precedes it
	Negation bool
}

// NewLexiconAnalyzer loads the embedded lexicon plus the optional user lexicon
func NewLexiconAnalyzer(opts LexiconOptions) (*LexiconAnalyzer, error) {
	words, err := ParseLexicon(defaultLexicon)
	if err != nil {
		return nil, fmt.Errorf("parse default lexicon: %w", err)
	}

	if opts.Path != "" {
		extra, err := LoadLexicon(opts.Path)
		if err != nil {
			return nil, err
		}
		for w, s := range extra {
			words[w] = s
		}
	}

	return &LexiconAnalyzer{
		words:    words,
		negation: opts.Negation,
		digest:   lexiconDigest(words, opts.Negation),
	}, nil
}

// LoadLexicon reads a YAML "word: score" file
func LoadLexicon(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	words, err := ParseLexicon(data)
	if err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	return words, nil
}

// ParseLexicon decodes a YAML mapping of word to score.
// Keys are lowercased; zero and non-finite scores are rejected.
func ParseLexicon(data []byte) (map[string]float64, error) {
	var raw map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	words := make(map[string]float64, len(raw))
	for w, s := range raw {
		key := strings.ToLower(strings.TrimSpace(w))
		if key == "" {
			continue
		}
		if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("word %q: score must be a nonzero finite number", w)
		}
		words[key] = s
	}
	return words, nil
}

// Name returns "lexicon"
func (a *LexiconAnalyzer) Name() string { return "lexicon" }

// Fingerprint changes whenever the lexicon contents or negation setting change
func (a *LexiconAnalyzer) Fingerprint() string { return a.digest }

// Size returns the number of lexicon entries
func (a *LexiconAnalyzer) Size() int { return len(a.words) }

// Analyze scores every lexicon token in text
func (a *LexiconAnalyzer) Analyze(ctx context.Context, text string) (*model.Sentiment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := Tokenize(text)
	var calculation []model.WordScore
	for i, token := range tokens {
		score, ok := a.words[token]
		if !ok {
			continue
		}
		if a.negation && i > 0 && negators[tokens[i-1]] {
			score = -score
		}
		calculation = append(calculation, model.WordScore{Word: token, Score: score})
	}

	return buildSentiment(a.Name(), tokens, calculation), nil
}

func lexiconDigest(words map[string]float64, negation bool) string {
	keys := make([]string, 0, len(words))
	for w := range words {
		keys = append(keys, w)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, w := range keys {
		h.Write([]byte(w))
		h.Write([]byte{'='})
		h.Write([]byte(strconv.FormatFloat(words[w], 'g', -1, 64)))
		h.Write([]byte{0})
	}
	fmt.Fprintf(h, "negation=%t", negation)
	return "lexicon:" + hex.EncodeToString(h.Sum(nil))[:16]
}
