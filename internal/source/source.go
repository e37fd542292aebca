// Package source loads commits from GitHub commit listings or commitmood's own JSON output.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/commitmood/internal/model"
)

// ErrNoCommits is returned when the input holds no commits
var ErrNoCommits = errors.New("no commits in input")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// rawCommit covers both the GitHub list-commits item and the flattened form
type rawCommit struct {
	SHA     string        `json:"sha"`
	HTMLURL string        `json:"html_url"`
	Message string        `json:"message"`
	Date    string        `json:"date"`
	Author  *model.Author `json:"author"`
	Commit  *struct {
		Message string `json:"message"`
		Author  *struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// Decode reads a JSON array of commits, or an object with a "commits" array.
// Items may use the GitHub list-commits shape (a null author is allowed) or
// the flattened {sha, message, date, author} shape.
func Decode(r io.Reader) ([]model.Commit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read commits: %w", err)
	}
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) == 0 {
		return nil, ErrNoCommits
	}

	var raws []rawCommit
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("decode commits: %w", err)
		}
	case '{':
		var wrapper struct {
			Commits []rawCommit `json:"commits"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("decode commits: %w", err)
		}
		raws = wrapper.Commits
	default:
		return nil, fmt.Errorf("decode commits: expected JSON array or object, got %q", data[0])
	}

	commits := make([]model.Commit, 0, len(raws))
	for i, raw := range raws {
		c, err := raw.toCommit()
		if err != nil {
			return nil, fmt.Errorf("commit %d: %w", i, err)
		}
		commits = append(commits, c)
	}

	if len(commits) == 0 {
		return commits, ErrNoCommits
	}
	return commits, nil
}

func (r rawCommit) toCommit() (model.Commit, error) {
	if r.SHA == "" {
		return model.Commit{}, errors.New("missing sha")
	}

	c := model.Commit{
		SHA:     r.SHA,
		HTMLURL: r.HTMLURL,
		Message: r.Message,
	}
	if r.Author != nil {
		c.Author = *r.Author
	}

	date := r.Date
	if r.Commit != nil {
		if c.Message == "" {
			c.Message = r.Commit.Message
		}
		if r.Commit.Author != nil {
			if c.Author.Name == "" {
				c.Author.Name = r.Commit.Author.Name
			}
			if date == "" {
				date = r.Commit.Author.Date
			}
		}
	}

	if date != "" {
		t, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return model.Commit{}, fmt.Errorf("parse date: %w", err)
		}
		c.Date = t
	}
	return c, nil
}

// ReadFile decodes commits from path; "-" reads standard input
func ReadFile(path string) ([]model.Commit, error) {
	if path == "-" {
		return Decode(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open commits file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// FilterByAuthor keeps commits whose login or author name equals author,
// ignoring case. An empty author keeps everything.
func FilterByAuthor(commits []model.Commit, author string) []model.Commit {
	author = strings.TrimSpace(author)
	if author == "" {
		return commits
	}

	var out []model.Commit
	for _, c := range commits {
		if strings.EqualFold(c.Author.Login, author) || strings.EqualFold(c.Author.Name, author) {
			out = append(out, c)
		}
	}
	return out
}

// Authors lists distinct author display names in first-seen order
func Authors(commits []model.Commit) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range commits {
		name := c.Author.DisplayName()
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// SplitMessage splits a commit message at blank lines: the summary is the
// first paragraph, the description is the remaining paragraphs joined by a
// single newline.
func SplitMessage(message string) (summary, description string) {
	parts := strings.Split(message, "\n\n")
	return parts[0], strings.Join(parts[1:], "\n")
}
