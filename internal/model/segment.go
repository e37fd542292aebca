package model

// Polarity is the resolved sentiment direction of a rendered segment
type Polarity string

const (
	PolarityNone     Polarity = "none"
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
)

// PolarityOf returns the polarity matching the sign of score
func PolarityOf(score float64) Polarity {
	switch {
	case score > 0:
		return PolarityPositive
	case score < 0:
		return PolarityNegative
	default:
		return PolarityNone
	}
}

// ChunkKind tags a chunk as a lexicon match or unmatched filler
type ChunkKind string

const (
	ChunkPlain      ChunkKind = "plain"
	ChunkAttributed ChunkKind = "attributed"
)

// Chunk is a contiguous slice of the source text produced by the lexicon matcher.
// Concatenating the chunks of one split reproduces the source text exactly.
type Chunk struct {
	Text string    `json:"text"`
	Kind ChunkKind `json:"kind"`
}

// Segment is a chunk with its resolved polarity, ready for rendering
type Segment struct {
	Text     string   `json:"text"`
	Polarity Polarity `json:"polarity"`
	Score    float64  `json:"score"`
	Distinct bool     `json:"distinct"`
}

// Highlighted reports whether the renderer should style this segment
func (s Segment) Highlighted() bool {
	return s.Polarity != PolarityNone
}

// JoinSegments concatenates segment texts back into the source text
func JoinSegments(segments []Segment) string {
	n := 0
	for _, s := range segments {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range segments {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
