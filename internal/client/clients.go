// Package client bundles the per-resource API clients behind one
// constructor so callers wire the transport and session store exactly once.
package client

import (
	"github.com/okian/arena/internal/client/ai"
	"github.com/okian/arena/internal/client/auth"
	"github.com/okian/arena/internal/client/tournament"
	"github.com/okian/arena/internal/session"
	"github.com/okian/arena/internal/transport"
)

// Clients groups the resource clients sharing one transport.
type Clients struct {
	Auth        *auth.Client
	Tournaments *tournament.Client
	AI          *ai.Client
}

// New builds the full client set on top of a shared transport and session
// store.
func New(api *transport.Client, store session.Store) *Clients {
	return &Clients{
		Auth:        auth.New(api, store),
		Tournaments: tournament.New(api),
		AI:          ai.New(api),
	}
}
