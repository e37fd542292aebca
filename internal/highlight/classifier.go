package highlight

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/commitmood/internal/model"
)

// Classify resolves chunks into segments, one segment per chunk.
//
// An attributed chunk keeps its polarity only when it is distinct: the
// nearest non-empty neighbor on each side must not touch it with a letter,
// digit or hyphen. Unknown words and unusable scores degrade to PolarityNone.
func Classify(chunks []model.Chunk, attribution model.Attribution) []model.Segment {
	segments := make([]model.Segment, len(chunks))

	for i, chunk := range chunks {
		seg := model.Segment{Text: chunk.Text, Polarity: model.PolarityNone}

		if chunk.Kind == model.ChunkAttributed && chunk.Text != "" {
			seg.Distinct = isDistinct(chunks, i)
			if seg.Distinct {
				seg.Polarity, seg.Score = resolve(attribution, chunk.Text)
			}
		}

		segments[i] = seg
	}

	return segments
}

func resolve(attribution model.Attribution, word string) (model.Polarity, float64) {
	if attribution == nil {
		return model.PolarityNone, 0
	}

	// matched chunks lowercase to their lexicon word, so a miss means an unusable score
	polarity, score, ok := attribution.Lookup(strings.ToLower(word))
	if !ok || math.IsNaN(score) || math.IsInf(score, 0) {
		return model.PolarityNone, 0
	}

	switch polarity {
	case model.PolarityPositive, model.PolarityNegative:
		return polarity, score
	default:
		return model.PolarityNone, 0
	}
}

func isDistinct(chunks []model.Chunk, i int) bool {
	for j := i - 1; j >= 0; j-- {
		if text := chunks[j].Text; text != "" {
			r, _ := utf8.DecodeLastRuneInString(text)
			if isWordRune(r) {
				return false
			}
			break
		}
	}

	for j := i + 1; j < len(chunks); j++ {
		if text := chunks[j].Text; text != "" {
			r, _ := utf8.DecodeRuneInString(text)
			if isWordRune(r) {
				return false
			}
			break
		}
	}

	return true
}

func isWordRune(r rune) bool {
	return r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
