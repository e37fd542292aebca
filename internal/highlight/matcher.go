package highlight

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/commitmood/internal/model"
)

// Matcher splits text against one lexicon
type Matcher struct {
	lexicon []string
	pattern *regexp.Regexp // nil for an empty lexicon
}

// NewMatcher compiles words into a matcher
func NewMatcher(words []string) *Matcher {
	lexicon := normalizeLexicon(words)
	return &Matcher{lexicon: lexicon, pattern: compilePattern(lexicon)}
}

// Split is a one-shot NewMatcher(words).Split(text)
func Split(text string, words []string) []model.Chunk {
	return NewMatcher(words).Split(text)
}

// Lexicon returns the normalized words in match order
func (m *Matcher) Lexicon() []string {
	return append([]string(nil), m.lexicon...)
}

// Split partitions text into attributed and plain chunks, preserving the
// source casing. Empty text yields no chunks; zero-length chunks are never emitted.
func (m *Matcher) Split(text string) []model.Chunk {
	if text == "" {
		return []model.Chunk{}
	}
	if m == nil || m.pattern == nil {
		return []model.Chunk{{Text: text, Kind: model.ChunkPlain}}
	}

	locs := m.pattern.FindAllStringIndex(text, -1)
	chunks := make([]model.Chunk, 0, 2*len(locs)+1)

	prev := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start == end {
			continue
		}
		if start > prev {
			chunks = append(chunks, model.Chunk{Text: text[prev:start], Kind: model.ChunkPlain})
		}
		chunks = append(chunks, model.Chunk{Text: text[start:end], Kind: model.ChunkAttributed})
		prev = end
	}
	if prev < len(text) {
		chunks = append(chunks, model.Chunk{Text: text[prev:], Kind: model.ChunkPlain})
	}

	return chunks
}

// normalizeLexicon lowercases, dedupes and orders words longest first.
// Ties sort lexicographically so one word set always yields one pattern.
func normalizeLexicon(words []string) []string {
	seen := make(map[string]bool, len(words))
	lexicon := make([]string, 0, len(words))
	for _, w := range words {
		key := strings.ToLower(w)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		lexicon = append(lexicon, key)
	}

	sort.Slice(lexicon, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(lexicon[i]), utf8.RuneCountInString(lexicon[j])
		if li != lj {
			return li > lj
		}
		return lexicon[i] < lexicon[j]
	})

	return lexicon
}

// compilePattern builds (?:w1|w2|...) where each cased rune becomes a class of
// every rune that lowercases to it. A match therefore lowercases to its
// lexicon word, which is the key attribution lookups use. RE2 alternation
// is leftmost-first, so the longest-first order decides overlaps.
func compilePattern(lexicon []string) *regexp.Regexp {
	if len(lexicon) == 0 {
		return nil
	}

	alternatives := make([]string, len(lexicon))
	for i, w := range lexicon {
		alternatives[i] = wordPattern(w)
	}

	re, err := regexp.Compile(`(?:` + strings.Join(alternatives, "|") + `)`)
	if err != nil {
		// only reachable for lexicons beyond the regexp size limit; render plain
		return nil
	}
	return re
}

func wordPattern(word string) string {
	upper := upperForms()
	var b strings.Builder
	for _, r := range word {
		forms := upper[r]
		if len(forms) == 0 {
			b.WriteString(regexp.QuoteMeta(string(r)))
			continue
		}
		// cased letters are never class metacharacters
		b.WriteByte('[')
		b.WriteRune(r)
		for _, f := range forms {
			b.WriteRune(f)
		}
		b.WriteByte(']')
	}
	return b.String()
}

// upperForms maps a rune to the other runes unicode.ToLower sends to it,
// e.g. 'i' -> 'I', 'İ' and 'k' -> 'K', 'K' (Kelvin).
var upperForms = sync.OnceValue(func() map[rune][]rune {
	forms := make(map[rune][]rune)
	for _, cr := range unicode.CaseRanges {
		for r := rune(cr.Lo); r <= rune(cr.Hi); r++ {
			if lower := unicode.ToLower(r); lower != r {
				forms[lower] = append(forms[lower], r)
			}
		}
	}
	return forms
})

// lexiconKey digests a normalized lexicon for the pattern cache
func lexiconKey(lexicon []string) string {
	h := sha256.New()
	for _, w := range lexicon {
		h.Write([]byte(w))
		h.Write([]byte{0})
	}
	return "lexicon:" + hex.EncodeToString(h.Sum(nil))
}
