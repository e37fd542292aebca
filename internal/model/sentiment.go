package model

// Sentiment is the analyzer output for one message.
// Calculation lists every scored token in message order; a word may repeat.
type Sentiment struct {
	Analyzer    string      `json:"analyzer,omitempty"`
	Score       float64     `json:"score"`
	Comparative float64     `json:"comparative"` // Score / len(Tokens)
	Tokens      []string    `json:"tokens"`
	Words       []string    `json:"words"`
	Positive    []string    `json:"positive"`
	Negative    []string    `json:"negative"`
	Calculation []WordScore `json:"calculation"`
}

// Attribution returns the word-level attribution in the requested shape
func (s *Sentiment) Attribution(kind AttributionKind) Attribution {
	if s == nil {
		return NewMapAttribution(nil)
	}
	if kind == AttributionList {
		return NewListAttribution(s.Positive, s.Negative)
	}
	return NewMapAttribution(s.Calculation)
}

// Polarity returns the overall direction of the message
func (s *Sentiment) Polarity() Polarity {
	if s == nil {
		return PolarityNone
	}
	return PolarityOf(s.Score)
}
