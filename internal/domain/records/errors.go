package records

import "errors"

// ErrNotFound indicates a lookup by id with no match. Absence, not failure.
var ErrNotFound = errors.New("record not found")
