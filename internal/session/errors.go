package session

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrStoreUnavailable = errors.New("session store unavailable")
	ErrPersistSession   = errors.New("persist session failed")
)
