package analysis

import "errors"

// ErrEmptyText indicates the caller submitted empty or whitespace-only text.
var ErrEmptyText = errors.New("text must not be empty")

// ErrUnsupportedTask indicates an unrecognized task name.
var ErrUnsupportedTask = errors.New("unsupported task")

// ErrMalformedResponse tags backend output that could not be parsed into the
// expected structure. Callers degrade instead of failing the request.
var ErrMalformedResponse = errors.New("malformed backend response")
