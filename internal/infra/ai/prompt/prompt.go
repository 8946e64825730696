package prompt

import "fmt"

// SummarizeSystemPrompt frames the model as a summarizer. Plain text out.
func SummarizeSystemPrompt() string {
	return "You are a helpful assistant that summarizes text."
}

// SummarizeUserPrompt wraps the text to summarize.
func SummarizeUserPrompt(text string) string {
	return fmt.Sprintf("Please summarize the following text in a concise paragraph:\n\n%s", text)
}

// EntitiesSystemPrompt provides strict directions and schema for JSON output.
func EntitiesSystemPrompt() string {
	return `You are a named-entity recognition engine. You must produce one valid JSON object only (no markdown, no commentary). Do not include code fences.

Requirements:
- Output must be a single JSON object.
- Uppercase entity types such as PERSON, ORGANIZATION, LOCATION, DATE, MISC.
- confidence is a number between 0 and 1.
- Return an empty entities array when the text contains no named entities.

Schema (example with empty values):
{
  "entities": [
    {"text": "<string>", "type": "<PERSON|ORGANIZATION|LOCATION|DATE|MISC>", "confidence": 0.0}
  ]
}`
}

// SentimentSystemPrompt provides strict directions and schema for JSON output.
func SentimentSystemPrompt() string {
	return `You are a sentiment classifier. You must produce one valid JSON object only (no markdown, no commentary). Do not include code fences.

Requirements:
- sentiment is exactly one of POSITIVE, NEGATIVE, NEUTRAL.
- score is a confidence number between 0 and 1.

Schema (example with empty values):
{"sentiment": "<POSITIVE|NEGATIVE|NEUTRAL>", "score": 0.0}`
}
