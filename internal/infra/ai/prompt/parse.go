package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aareend/llm-text-processor/internal/domain/analysis"
)

// ParseMentions decodes a backend completion into raw entity mentions.
// Anything that does not match the requested schema is tagged with
// analysis.ErrMalformedResponse so callers can degrade instead of failing.
func ParseMentions(raw string) ([]analysis.Mention, error) {
	var payload struct {
		Entities []struct {
			Text       string  `json:"text"`
			Type       string  `json:"type"`
			Confidence float64 `json:"confidence"`
		} `json:"entities"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrMalformedResponse, err)
	}

	mentions := make([]analysis.Mention, 0, len(payload.Entities))
	for _, e := range payload.Entities {
		mentions = append(mentions, analysis.Mention{
			Text:       e.Text,
			Type:       e.Type,
			Confidence: e.Confidence,
		})
	}
	return mentions, nil
}

// ParseSentiment decodes a backend completion into a (label, score) pair.
// A missing label or score counts as malformed.
func ParseSentiment(raw string) (string, float64, error) {
	var payload struct {
		Sentiment string   `json:"sentiment"`
		Score     *float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return "", 0, fmt.Errorf("%w: %v", analysis.ErrMalformedResponse, err)
	}
	if payload.Sentiment == "" || payload.Score == nil {
		return "", 0, fmt.Errorf("%w: sentiment or score missing", analysis.ErrMalformedResponse)
	}
	return payload.Sentiment, *payload.Score, nil
}

// stripFences drops a surrounding markdown code fence. Models add them even
// when told not to.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
