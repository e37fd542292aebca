package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// AttributionKind discriminates the two shapes an analyzer can report
type AttributionKind string

const (
	AttributionList AttributionKind = "list" // positive/negative word sets, no scores
	AttributionMap  AttributionKind = "map"  // word -> signed score
)

// ParseAttributionKind parses a kind name, defaulting to the map form
func ParseAttributionKind(s string) (AttributionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(AttributionMap):
		return AttributionMap, nil
	case string(AttributionList):
		return AttributionList, nil
	default:
		return "", fmt.Errorf("unknown attribution kind: %q (supported: map, list)", s)
	}
}

// Attribution is the analyzer's word-level explanation of one message.
// Words are case-insensitive; Lookup expects any casing and reports ok=false
// when the word is unknown or its score cannot be interpreted.
type Attribution interface {
	Kind() AttributionKind
	Words() []string
	Lookup(word string) (Polarity, float64, bool)
}

// WordScore is one entry of an analyzer calculation
type WordScore struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// ListAttribution is the list form: a positive set and a negative set.
// A word listed in both resolves to positive (the positive list is applied last).
type ListAttribution struct {
	words    []string
	polarity map[string]Polarity
}

// NewListAttribution builds a list-form attribution
func NewListAttribution(positive, negative []string) *ListAttribution {
	a := &ListAttribution{polarity: make(map[string]Polarity, len(positive)+len(negative))}

	for _, words := range [][]string{positive, negative} {
		for _, w := range words {
			key := strings.ToLower(w)
			if key == "" {
				continue
			}
			if _, seen := a.polarity[key]; !seen {
				a.words = append(a.words, key)
			}
			a.polarity[key] = PolarityNone
		}
	}

	// negative first, positive last: positive wins on conflict
	for _, w := range negative {
		if key := strings.ToLower(w); key != "" {
			a.polarity[key] = PolarityNegative
		}
	}
	for _, w := range positive {
		if key := strings.ToLower(w); key != "" {
			a.polarity[key] = PolarityPositive
		}
	}

	return a
}

// Kind returns AttributionList
func (a *ListAttribution) Kind() AttributionKind { return AttributionList }

// Words returns the lowercased lexicon, positive words first
func (a *ListAttribution) Words() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.words...)
}

// Lookup resolves a word to its polarity; list form never carries a score
func (a *ListAttribution) Lookup(word string) (Polarity, float64, bool) {
	if a == nil {
		return PolarityNone, 0, false
	}
	p, ok := a.polarity[strings.ToLower(word)]
	if !ok {
		return PolarityNone, 0, false
	}
	return p, 0, true
}

// Positive returns the words that resolved to positive
func (a *ListAttribution) Positive() []string { return a.filter(PolarityPositive) }

// Negative returns the words that resolved to negative
func (a *ListAttribution) Negative() []string { return a.filter(PolarityNegative) }

func (a *ListAttribution) filter(p Polarity) []string {
	out := []string{}
	if a == nil {
		return out
	}
	for _, w := range a.words {
		if a.polarity[w] == p {
			out = append(out, w)
		}
	}
	return out
}

// MarshalJSON encodes the list form with its discriminator
func (a *ListAttribution) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     AttributionKind `json:"kind"`
		Positive []string        `json:"positive"`
		Negative []string        `json:"negative"`
	}{AttributionList, a.Positive(), a.Negative()})
}

// MapAttribution is the map form: lowercase word -> signed score.
// When the same word is supplied twice (in any casing) the later entry wins.
type MapAttribution struct {
	order  []string
	scores map[string]float64
}

// NewMapAttribution builds a map-form attribution from ordered entries
func NewMapAttribution(entries []WordScore) *MapAttribution {
	a := &MapAttribution{scores: make(map[string]float64, len(entries))}
	for _, e := range entries {
		key := strings.ToLower(e.Word)
		if key == "" {
			continue
		}
		if _, exists := a.scores[key]; !exists {
			a.order = append(a.order, key)
		}
		a.scores[key] = e.Score
	}
	return a
}

// MapAttributionFromScores builds a map-form attribution from an unordered map.
// Keys are applied in byte order so case collisions resolve the same way every time.
func MapAttributionFromScores(scores map[string]float64) *MapAttribution {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]WordScore, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, WordScore{Word: k, Score: scores[k]})
	}
	return NewMapAttribution(entries)
}

// Kind returns AttributionMap
func (a *MapAttribution) Kind() AttributionKind { return AttributionMap }

// Words returns words with a usable nonzero score, in first-seen order
func (a *MapAttribution) Words() []string {
	if a == nil {
		return nil
	}
	out := make([]string, 0, len(a.order))
	for _, w := range a.order {
		if usableScore(a.scores[w]) {
			out = append(out, w)
		}
	}
	return out
}

// Lookup resolves a word to the sign of its score
func (a *MapAttribution) Lookup(word string) (Polarity, float64, bool) {
	if a == nil {
		return PolarityNone, 0, false
	}
	s, ok := a.scores[strings.ToLower(word)]
	if !ok || !usableScore(s) {
		return PolarityNone, 0, false
	}
	return PolarityOf(s), s, true
}

// Scores returns a copy of the usable scores
func (a *MapAttribution) Scores() map[string]float64 {
	if a == nil {
		return map[string]float64{}
	}
	out := make(map[string]float64, len(a.scores))
	for w, s := range a.scores {
		if usableScore(s) {
			out[w] = s
		}
	}
	return out
}

// MarshalJSON encodes the map form with its discriminator
func (a *MapAttribution) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   AttributionKind    `json:"kind"`
		Scores map[string]float64 `json:"scores"`
	}{AttributionMap, a.Scores()})
}

func usableScore(s float64) bool {
	return s != 0 && !math.IsNaN(s) && !math.IsInf(s, 0)
}

// DecodeAttribution decodes any of the accepted attribution encodings:
//
//	{"kind":"list","positive":[...],"negative":[...]}
//	{"kind":"map","scores":{"word":n}}
//	{"positive":[...],"negative":[...]}
//	{"word":n, ...}              ("kind" counts as a word unless it is "list" or "map")
//	[{"word":n}, ...]            (analyzer calculation order, later wins)
//
// Values that are not numbers are skipped in the map forms.
func DecodeAttribution(data []byte) (Attribution, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("decode attribution: empty input")
	}

	if data[0] == '[' {
		var items []map[string]json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode attribution: %w", err)
		}
		var entries []WordScore
		for _, item := range items {
			entries = append(entries, wordScores(item)...)
		}
		return NewMapAttribution(entries), nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode attribution: %w", err)
	}

	// "kind" is only a discriminator when it names a form; otherwise it is a word
	switch discriminator(probe["kind"]) {
	case AttributionList:
		return decodeList(data)
	case AttributionMap:
		var env struct {
			Scores map[string]json.RawMessage `json:"scores"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decode map attribution: %w", err)
		}
		return NewMapAttribution(wordScores(env.Scores)), nil
	}

	if isArray(probe["positive"]) || isArray(probe["negative"]) {
		return decodeList(data)
	}

	return NewMapAttribution(wordScores(probe)), nil
}

func discriminator(raw json.RawMessage) AttributionKind {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	switch kind := AttributionKind(s); kind {
	case AttributionList, AttributionMap:
		return kind
	}
	return ""
}

func decodeList(data []byte) (Attribution, error) {
	var env struct {
		Positive []string `json:"positive"`
		Negative []string `json:"negative"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode list attribution: %w", err)
	}
	return NewListAttribution(env.Positive, env.Negative), nil
}

// wordScores converts one JSON object into entries, in key byte order.
// {"word":"x","score":n} is read as a single WordScore.
func wordScores(obj map[string]json.RawMessage) []WordScore {
	if rawWord, ok := obj["word"]; ok && len(obj) == 2 {
		var ws WordScore
		if err := json.Unmarshal(rawWord, &ws.Word); err == nil {
			if err := json.Unmarshal(obj["score"], &ws.Score); err == nil {
				return []WordScore{ws}
			}
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]WordScore, 0, len(keys))
	for _, k := range keys {
		var score float64
		if err := json.Unmarshal(obj[k], &score); err != nil {
			continue
		}
		entries = append(entries, WordScore{Word: k, Score: score})
	}
	return entries
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
