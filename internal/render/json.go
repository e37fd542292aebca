package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ppiankov/commitmood/internal/model"
)

// JSONRenderer writes indented JSON
type JSONRenderer struct{}

type batchDocument struct {
	Commits []model.HighlightedCommit `json:"commits"`
	Summary *model.Summary            `json:"summary,omitempty"`
}

type textDocument struct {
	Text      string           `json:"text"`
	Sentiment *model.Sentiment `json:"sentiment,omitempty"`
	Segments  []model.Segment  `json:"segments"`
}

func (r *JSONRenderer) encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Render writes {"commits": [...], "summary": {...}}; the output can be read back by source.Decode
func (r *JSONRenderer) Render(w io.Writer, commits []model.HighlightedCommit, summary *model.Summary) error {
	if commits == nil {
		commits = []model.HighlightedCommit{}
	}
	return r.encode(w, batchDocument{Commits: commits, Summary: summary})
}

// RenderText writes the text, its sentiment and its segments
func (r *JSONRenderer) RenderText(w io.Writer, segments []model.Segment, sentiment *model.Sentiment) error {
	if segments == nil {
		segments = []model.Segment{}
	}
	return r.encode(w, textDocument{
		Text:      model.JoinSegments(segments),
		Sentiment: sentiment,
		Segments:  segments,
	})
}
