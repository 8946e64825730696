package analysis

// Sentiment labels
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
	SentimentUnknown  = "UNKNOWN"
)

// ValidSentiment reports whether label is one of the three supported labels.
func ValidSentiment(label string) bool {
	switch label {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// SummaryResult is the structured result of a summarize task.
type SummaryResult struct {
	Summary string `json:"summary"`
	Note    string `json:"note,omitempty"`
}

// EntityMention is a single mention as stored inside an EntitiesResult,
// grouped under its entity type.
type EntityMention struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// EntitiesResult is the structured result of an entities task. Mentions are
// grouped by entity type (PERSON, ORGANIZATION, LOCATION, ...).
type EntitiesResult struct {
	Entities map[string][]EntityMention `json:"entities"`
	Error    string                     `json:"error,omitempty"`
}

// SentimentResult is the structured result of a sentiment task.
type SentimentResult struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
	Error     string  `json:"error,omitempty"`
}

// Mention is a raw entity mention as produced by a backend, before grouping.
type Mention struct {
	Text       string
	Type       string
	Confidence float64
}
