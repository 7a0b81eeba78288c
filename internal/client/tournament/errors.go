package tournament

import "errors"

// Sentinel kinds for tournament client errors.
var (
	ErrUnexpectedShape = errors.New("unexpected response shape")
)
