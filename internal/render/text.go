package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ppiankov/commitmood/internal/model"
)

const (
	ansiReset   = "\x1b[0m"
	ansiGreenBg = "\x1b[42m"
	ansiRedBg   = "\x1b[41m"
	ansiDim     = "\x1b[2m"
)

// TextRenderer writes plain text, optionally with ANSI highlight backgrounds
type TextRenderer struct {
	Color bool
}

// SegmentsText renders segments as text. With color, positive segments get a
// green background and negative segments a red one.
func SegmentsText(segments []model.Segment, color bool) string {
	var b strings.Builder
	for _, s := range segments {
		if !color || !s.Highlighted() {
			b.WriteString(s.Text)
			continue
		}
		if s.Polarity == model.PolarityPositive {
			b.WriteString(ansiGreenBg)
		} else {
			b.WriteString(ansiRedBg)
		}
		b.WriteString(s.Text)
		b.WriteString(ansiReset)
	}
	return b.String()
}

func (r *TextRenderer) dim(s string) string {
	if !r.Color || s == "" {
		return s
	}
	return ansiDim + s + ansiReset
}

// Render writes one block per commit followed by the summary
func (r *TextRenderer) Render(w io.Writer, commits []model.HighlightedCommit, summary *model.Summary) error {
	ew := &errWriter{w: w}

	for i, c := range commits {
		if i > 0 {
			ew.printf("\n")
		}
		header := strings.TrimSpace(strings.Join([]string{c.ShortSHA(), c.Author.DisplayName(), formatDate(c.Commit)}, "  "))
		ew.printf("%s\n", r.dim(header))
		ew.printf("  %s  (%s)\n", SegmentsText(c.Summary, r.Color), formatScore(sentimentScore(c.Sentiment)))
		if desc := model.JoinSegments(c.Description); strings.TrimSpace(desc) != "" {
			for _, line := range strings.Split(SegmentsText(c.Description, r.Color), "\n") {
				ew.printf("    %s\n", line)
			}
		}
	}

	if summary != nil {
		if len(commits) > 0 {
			ew.printf("\n")
		}
		r.renderSummary(ew, summary)
	}

	return ew.err
}

func (r *TextRenderer) renderSummary(ew *errWriter, s *model.Summary) {
	ew.printf("Commits: %d (%d positive, %d negative, %d neutral)\n", s.Commits, s.Positive, s.Negative, s.Neutral)
	ew.printf("Mean score: %.2f (%s)\n", s.MeanScore, s.Mood)
	if s.MostPositive != "" {
		ew.printf("Most positive: %s\n", shortSHA(s.MostPositive))
	}
	if s.MostNegative != "" {
		ew.printf("Most negative: %s\n", shortSHA(s.MostNegative))
	}
	ew.printf("Top positive words: %s\n", formatWordCounts(s.TopPositiveWords))
	ew.printf("Top negative words: %s\n", formatWordCounts(s.TopNegativeWords))
	if len(s.Authors) > 0 {
		ew.printf("Authors:\n")
		for _, a := range s.Authors {
			ew.printf("  %-20s %3d commits  mean %s\n", a.Author, a.Commits, formatScore(roundScore(a.MeanScore)))
		}
	}
}

// RenderText writes the highlighted text and, when known, its score
func (r *TextRenderer) RenderText(w io.Writer, segments []model.Segment, sentiment *model.Sentiment) error {
	ew := &errWriter{w: w}
	ew.printf("%s\n", SegmentsText(segments, r.Color))
	if sentiment != nil {
		ew.printf("%s\n", r.dim(fmt.Sprintf("score %s, comparative %.3f", formatScore(sentiment.Score), sentiment.Comparative)))
	}
	return ew.err
}

func shortSHA(sha string) string {
	return model.Commit{SHA: sha}.ShortSHA()
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}

// errWriter keeps the first write error and skips later writes
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
