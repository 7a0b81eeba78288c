package console

import "io"

// Option configures the console.
type Option func(*Console)

// WithWriter redirects command output, mainly for tests.
func WithWriter(w io.Writer) Option {
	return func(c *Console) {
		c.out = w
	}
}
