package model

import "time"

// Author identifies who wrote a commit
type Author struct {
	Login     string `json:"login,omitempty"`      // GitHub login (empty for unlinked emails)
	Name      string `json:"name,omitempty"`       // Git author name
	AvatarURL string `json:"avatar_url,omitempty"` // GitHub avatar
}

// DisplayName returns the login, falling back to the git author name
func (a Author) DisplayName() string {
	if a.Login != "" {
		return a.Login
	}
	if a.Name != "" {
		return a.Name
	}
	return "unknown"
}

// Commit is a single commit as loaded from a GitHub commit listing
type Commit struct {
	SHA     string    `json:"sha"`
	HTMLURL string    `json:"html_url,omitempty"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Author  Author    `json:"author"`
}

// ShortSHA returns the 7-character abbreviated hash
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

// HighlightedCommit is a commit with its sentiment and render-ready segments
type HighlightedCommit struct {
	Commit
	Sentiment       *Sentiment      `json:"sentiment"`
	AttributionKind AttributionKind `json:"attribution_kind"`
	Summary         []Segment       `json:"summary"`               // first paragraph
	Description     []Segment       `json:"description,omitempty"` // remaining paragraphs
}
