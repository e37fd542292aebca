package render

import (
	"io"
	"strings"

	"github.com/ppiankov/commitmood/internal/model"
)

// MarkdownRenderer writes GitHub-flavored markdown: positive words in bold,
// negative words struck through
type MarkdownRenderer struct{}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`~`, `\~`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
	`|`, `\|`,
)

// EscapeMarkdown escapes characters markdown would interpret
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// SegmentsMarkdown renders segments as inline markdown
func SegmentsMarkdown(segments []model.Segment) string {
	var b strings.Builder
	for _, s := range segments {
		escaped := EscapeMarkdown(s.Text)
		switch s.Polarity {
		case model.PolarityPositive:
			b.WriteString("**" + escaped + "**")
		case model.PolarityNegative:
			b.WriteString("~~" + escaped + "~~")
		default:
			b.WriteString(escaped)
		}
	}
	return b.String()
}

// Render writes one section per commit, then the summary
func (r *MarkdownRenderer) Render(w io.Writer, commits []model.HighlightedCommit, summary *model.Summary) error {
	ew := &errWriter{w: w}

	ew.printf("# Commit sentiment\n")
	for _, c := range commits {
		ew.printf("\n### `%s` %s (%s)\n\n", c.ShortSHA(), SegmentsMarkdown(c.Summary), formatScore(sentimentScore(c.Sentiment)))

		meta := EscapeMarkdown(c.Author.DisplayName())
		if d := formatDate(c.Commit); d != "" {
			meta += ", " + d
		}
		ew.printf("_%s_", meta)
		if c.HTMLURL != "" {
			ew.printf(" · [view](%s)", c.HTMLURL)
		}
		ew.printf("\n")

		if desc := model.JoinSegments(c.Description); strings.TrimSpace(desc) != "" {
			ew.printf("\n%s\n", SegmentsMarkdown(c.Description))
		}
	}

	if summary != nil {
		ew.printf("\n## Summary\n\n")
		ew.printf("| Commits | Positive | Negative | Neutral | Mean score | Mood |\n")
		ew.printf("|---:|---:|---:|---:|---:|---|\n")
		ew.printf("| %d | %d | %d | %d | %.2f | %s |\n\n", summary.Commits, summary.Positive, summary.Negative, summary.Neutral, summary.MeanScore, summary.Mood)
		ew.printf("- **Top positive words:** %s\n", EscapeMarkdown(formatWordCounts(summary.TopPositiveWords)))
		ew.printf("- **Top negative words:** %s\n", EscapeMarkdown(formatWordCounts(summary.TopNegativeWords)))
		if len(summary.Authors) > 0 {
			ew.printf("\n| Author | Commits | Mean score |\n|---|---:|---:|\n")
			for _, a := range summary.Authors {
				ew.printf("| %s | %d | %.2f |\n", EscapeMarkdown(a.Author), a.Commits, a.MeanScore)
			}
		}
	}

	return ew.err
}

// RenderText writes the highlighted text as a markdown paragraph
func (r *MarkdownRenderer) RenderText(w io.Writer, segments []model.Segment, sentiment *model.Sentiment) error {
	ew := &errWriter{w: w}
	ew.printf("%s\n", SegmentsMarkdown(segments))
	if sentiment != nil {
		ew.printf("\n_score %s_\n", formatScore(sentiment.Score))
	}
	return ew.err
}
