package analysis

import "context"

// Backend port (interface for the model backend, remote API or local server).
// Every call blocks until the backend answers; timeouts are the caller's job.
type Backend interface {
	Name() string
	Summarize(ctx context.Context, text string) (string, error)
	TagEntities(ctx context.Context, text string) ([]Mention, error)
	ScoreSentiment(ctx context.Context, text string) (label string, score float64, err error)
}
