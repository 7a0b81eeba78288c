package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNetwork marks failures where no response was received at all.
var ErrNetwork = errors.New("network unreachable")

// StatusError is returned for non-2xx responses. Detail carries the
// backend's {"detail": ...} validation message when present so callers can
// surface it verbatim.
type StatusError struct {
	Code   int
	Detail string
	Body   []byte
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Code, http.StatusText(e.Code), e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
}

// AsStatus unwraps a StatusError from err, if any.
func AsStatus(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}
