package session

import "os"

// Option applies a configuration option to the file-backed store.
type Option func(*fileStore)

// WithFileMode sets the permission bits used for the stored entries.
func WithFileMode(mode os.FileMode) Option {
	return func(s *fileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}
