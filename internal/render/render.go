// Package render writes highlighted commits as text, markdown, HTML or JSON.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ppiankov/commitmood/internal/model"
)

// Renderer writes highlighted output
type Renderer interface {
	// Render writes a batch of commits; summary may be nil
	Render(w io.Writer, commits []model.HighlightedCommit, summary *model.Summary) error

	// RenderText writes one highlighted text; sentiment may be nil
	RenderText(w io.Writer, segments []model.Segment, sentiment *model.Sentiment) error
}

// Formats lists the supported output formats
var Formats = []string{"text", "markdown", "html", "json"}

// New returns the renderer for format. color only affects the text format.
func New(format string, color bool) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return &TextRenderer{Color: color}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "html":
		return &HTMLRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// formatScore prints a score with an explicit sign and no trailing zeros
func formatScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', -1, 64)
	if score > 0 {
		return "+" + s
	}
	return s
}

func formatDate(c model.Commit) string {
	if c.Date.IsZero() {
		return ""
	}
	return c.Date.UTC().Format("2006-01-02")
}

func sentimentScore(s *model.Sentiment) float64 {
	if s == nil {
		return 0
	}
	return s.Score
}

func formatWordCounts(words []model.WordCount) string {
	if len(words) == 0 {
		return "-"
	}
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%s (%d)", w.Word, w.Count)
	}
	return strings.Join(parts, ", ")
}
