package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/commitmood/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLRenderer writes an HTML fragment with one span per highlighted segment
type HTMLRenderer struct{}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(text(s))
	return n
}

// appendLines adds s as text nodes with <br> between its lines
func appendLines(parent *html.Node, s string) {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			parent.AppendChild(element(atom.Br))
		}
		if line != "" {
			parent.AppendChild(text(line))
		}
	}
}

// SegmentsHTML appends segments to parent. Highlighted segments become
// <span class="positive|negative" data-score="n">.
func SegmentsHTML(parent *html.Node, segments []model.Segment) {
	for _, s := range segments {
		if !s.Highlighted() {
			appendLines(parent, s.Text)
			continue
		}
		span := element(atom.Span, "class", string(s.Polarity), "data-score", formatScore(s.Score))
		appendLines(span, s.Text)
		parent.AppendChild(span)
	}
}

func (r *HTMLRenderer) commitNode(c model.HighlightedCommit) *html.Node {
	article := element(atom.Article, "class", "commit", "data-sha", c.SHA)

	header := element(atom.Header)
	sha := withText(element(atom.Code), c.ShortSHA())
	if c.HTMLURL != "" {
		link := element(atom.A, "href", c.HTMLURL)
		link.AppendChild(sha)
		header.AppendChild(link)
	} else {
		header.AppendChild(sha)
	}
	header.AppendChild(text(" "))
	header.AppendChild(withText(element(atom.Span, "class", "author"), c.Author.DisplayName()))
	if d := formatDate(c.Commit); d != "" {
		header.AppendChild(text(" "))
		header.AppendChild(withText(element(atom.Time, "datetime", d), d))
	}
	header.AppendChild(text(" "))
	header.AppendChild(withText(element(atom.Span, "class", "score"), formatScore(sentimentScore(c.Sentiment))))
	article.AppendChild(header)

	summary := element(atom.P, "class", "summary")
	SegmentsHTML(summary, c.Summary)
	article.AppendChild(summary)

	if desc := model.JoinSegments(c.Description); strings.TrimSpace(desc) != "" {
		description := element(atom.P, "class", "description")
		SegmentsHTML(description, c.Description)
		article.AppendChild(description)
	}

	return article
}

func summaryNode(s *model.Summary) *html.Node {
	dl := element(atom.Dl, "class", "summary")
	add := func(term, value string) {
		dl.AppendChild(withText(element(atom.Dt), term))
		dl.AppendChild(withText(element(atom.Dd), value))
	}
	add("Commits", fmt.Sprintf("%d (%d positive, %d negative, %d neutral)", s.Commits, s.Positive, s.Negative, s.Neutral))
	add("Mean score", fmt.Sprintf("%.2f (%s)", s.MeanScore, s.Mood))
	add("Top positive words", formatWordCounts(s.TopPositiveWords))
	add("Top negative words", formatWordCounts(s.TopNegativeWords))
	return dl
}

// Render writes a <section> holding one <article> per commit and the summary
func (r *HTMLRenderer) Render(w io.Writer, commits []model.HighlightedCommit, summary *model.Summary) error {
	section := element(atom.Section, "class", "commitmood")
	for _, c := range commits {
		section.AppendChild(r.commitNode(c))
	}
	if summary != nil {
		section.AppendChild(summaryNode(summary))
	}

	if err := html.Render(w, section); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// RenderText writes the highlighted text as a single paragraph
func (r *HTMLRenderer) RenderText(w io.Writer, segments []model.Segment, sentiment *model.Sentiment) error {
	p := element(atom.P, "class", "highlight")
	if sentiment != nil {
		p.Attr = append(p.Attr, html.Attribute{Key: "data-score", Val: formatScore(sentiment.Score)})
	}
	SegmentsHTML(p, segments)

	if err := html.Render(w, p); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
