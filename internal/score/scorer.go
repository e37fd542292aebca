package score

import (
	"sort"
	"strings"

	"github.com/ppiankov/commitmood/internal/model"
)

// Mood labels for a batch
const (
	MoodUpbeat = "upbeat"
	MoodSteady = "steady"
	MoodGrumpy = "grumpy"
)

// moodThreshold is the mean score beyond which a batch leaves "steady"
const moodThreshold = 0.5

// Scorer aggregates highlighted commits into a Summary
type Scorer struct {
	topWords int
}

// NewScorer creates a scorer keeping topWords words per polarity (default 10)
func NewScorer(topWords int) *Scorer {
	if topWords <= 0 {
		topWords = 10
	}
	return &Scorer{topWords: topWords}
}

// Summarize aggregates commits with the default scorer
func Summarize(commits []model.HighlightedCommit) model.Summary {
	return NewScorer(0).Summarize(commits)
}

// Summarize counts polarities, finds the extremes and ranks attributed words.
// Commits without a sentiment count as neutral with score 0.
func (s *Scorer) Summarize(commits []model.HighlightedCommit) model.Summary {
	summary := model.Summary{
		Commits:          len(commits),
		TopPositiveWords: []model.WordCount{},
		TopNegativeWords: []model.WordCount{},
		Authors:          []model.AuthorScore{},
	}
	if len(commits) == 0 {
		summary.Mood = MoodSteady
		return summary
	}

	positiveWords := make(map[string]int)
	negativeWords := make(map[string]int)
	authors := newTally()
	days := newTally()

	var maxScore, minScore float64
	for _, c := range commits {
		polarity := c.Sentiment.Polarity()
		value := 0.0
		if c.Sentiment != nil {
			value = c.Sentiment.Score
			countWords(positiveWords, c.Sentiment.Positive)
			countWords(negativeWords, c.Sentiment.Negative)
		}

		switch polarity {
		case model.PolarityPositive:
			summary.Positive++
		case model.PolarityNegative:
			summary.Negative++
		default:
			summary.Neutral++
		}
		summary.TotalScore += value

		// Ties keep the earliest commit.
		if value > maxScore {
			maxScore = value
			summary.MostPositive = c.SHA
		}
		if value < minScore {
			minScore = value
			summary.MostNegative = c.SHA
		}

		authors.add(c.Author.DisplayName(), value)
		if !c.Date.IsZero() {
			days.add(c.Date.UTC().Format("2006-01-02"), value)
		}
	}

	summary.MeanScore = summary.TotalScore / float64(len(commits))
	summary.Mood = determineMood(summary.MeanScore)
	summary.TopPositiveWords = s.rank(positiveWords)
	summary.TopNegativeWords = s.rank(negativeWords)

	for _, name := range authors.keys {
		summary.Authors = append(summary.Authors, model.AuthorScore{
			Author:    name,
			Commits:   authors.count[name],
			MeanScore: authors.mean(name),
		})
	}
	sort.SliceStable(summary.Authors, func(i, j int) bool {
		return summary.Authors[i].Commits > summary.Authors[j].Commits
	})

	sort.Strings(days.keys)
	for _, day := range days.keys {
		summary.Days = append(summary.Days, model.DayScore{
			Date:      day,
			Commits:   days.count[day],
			MeanScore: days.mean(day),
		})
	}

	return summary
}

// countWords counts each word once per commit
func countWords(counts map[string]int, words []string) {
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if !seen[w] {
			seen[w] = true
			counts[w]++
		}
	}
}

// rank orders words by count, then alphabetically, and truncates to topWords
func (s *Scorer) rank(counts map[string]int) []model.WordCount {
	out := make([]model.WordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, model.WordCount{Word: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > s.topWords {
		out = out[:s.topWords]
	}
	return out
}

func determineMood(mean float64) string {
	switch {
	case mean > moodThreshold:
		return MoodUpbeat
	case mean < -moodThreshold:
		return MoodGrumpy
	default:
		return MoodSteady
	}
}

// tally accumulates score totals per key in first-seen order
type tally struct {
	keys  []string
	count map[string]int
	total map[string]float64
}

func newTally() *tally {
	return &tally{count: make(map[string]int), total: make(map[string]float64)}
}

func (t *tally) add(key string, value float64) {
	if _, ok := t.count[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.count[key]++
	t.total[key] += value
}

func (t *tally) mean(key string) float64 {
	return t.total[key] / float64(t.count[key])
}
