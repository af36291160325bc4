package services

import (
	"time"

	"github.com/bluele/gcache"
)

// SessionRegistry hands each caller session its own RouteOrchestrator.
//
// A session owns its segment cache and its supersede scope, so a new request from one
// session never cancels another session's work. Sessions are kept in an LRU and expire
// after idleTTL without use.
type SessionRegistry struct {
	sessions        gcache.Cache
	newOrchestrator func() *RouteOrchestrator
}

func NewSessionRegistry(size int, idleTTL time.Duration, factory func() *RouteOrchestrator) *SessionRegistry {
	if size <= 0 {
		size = 1
	}

	b := gcache.New(size).
		LRU().
		LoaderFunc(func(_ interface{}) (interface{}, error) {
			return factory(), nil
		})
	if idleTTL > 0 {
		b = b.Expiration(idleTTL)
	}

	return &SessionRegistry{sessions: b.Build(), newOrchestrator: factory}
}

// Orchestrator returns the session's orchestrator, creating it on first use.
// An empty session id gets a fresh orchestrator that is not retained.
func (r *SessionRegistry) Orchestrator(sessionID string) *RouteOrchestrator {
	if sessionID == "" {
		return r.newOrchestrator()
	}

	v, err := r.sessions.Get(sessionID)
	if err != nil {
		return r.newOrchestrator()
	}
	o := v.(*RouteOrchestrator)

	// re-set to push the idle expiry forward
	_ = r.sessions.Set(sessionID, o)
	return o
}

func (r *SessionRegistry) Len() int { return r.sessions.Len(true) }
