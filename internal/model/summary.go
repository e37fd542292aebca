package model

// Summary aggregates the sentiment of a batch of commits
type Summary struct {
	Commits      int     `json:"commits"`
	Positive     int     `json:"positive"` // commits with score > 0
	Negative     int     `json:"negative"` // commits with score < 0
	Neutral      int     `json:"neutral"`  // commits with score == 0
	TotalScore   float64 `json:"total_score"`
	MeanScore    float64 `json:"mean_score"`
	MostPositive string  `json:"most_positive,omitempty"` // SHA
	MostNegative string  `json:"most_negative,omitempty"` // SHA
	Mood         string  `json:"mood"`                    // upbeat, steady, grumpy

	TopPositiveWords []WordCount   `json:"top_positive_words"`
	TopNegativeWords []WordCount   `json:"top_negative_words"`
	Authors          []AuthorScore `json:"authors"`
	Days             []DayScore    `json:"days,omitempty"`
}

// WordCount counts how often a word was attributed across a batch
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// AuthorScore is the per-author mean sentiment
type AuthorScore struct {
	Author    string  `json:"author"`
	Commits   int     `json:"commits"`
	MeanScore float64 `json:"mean_score"`
}

// DayScore is the mean sentiment of the commits authored on one UTC day
type DayScore struct {
	Date      string  `json:"date"` // YYYY-MM-DD
	Commits   int     `json:"commits"`
	MeanScore float64 `json:"mean_score"`
}
