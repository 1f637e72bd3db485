// Package session provides the injected session registry: per-session
// dialogue contexts with serialized access, plus the session REST surface.
package session

import (
	"sync"

	"github.com/karimnasser/schedbot/internal/conversation"
)

// Registry maps session ids to dialogue contexts. Each session's context
// is guarded by its own mutex so one session's slow turn never blocks
// another, while two turns for the same session can never interleave.
type Registry struct {
	mu           sync.Mutex
	sessions     map[string]*entry
	historyLimit int
}

type entry struct {
	mu  sync.Mutex
	ctx *conversation.Context
}

// NewRegistry creates an empty registry. historyLimit bounds each
// session's retained conversation history.
func NewRegistry(historyLimit int) *Registry {
	return &Registry{
		sessions:     make(map[string]*entry),
		historyLimit: historyLimit,
	}
}

func (r *Registry) lookup(sessionID string, create bool) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sessionID]
	if !ok {
		if !create {
			return nil
		}
		e = &entry{ctx: conversation.NewContext(sessionID, r.historyLimit)}
		r.sessions[sessionID] = e
	}
	return e
}

// With runs fn with exclusive access to the session's context, creating a
// default context on first use. The context must not escape fn.
func (r *Registry) With(sessionID string, fn func(*conversation.Context) error) error {
	e := r.lookup(sessionID, true)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.ctx)
}

// View runs fn with exclusive access to an existing session's context.
// It reports whether the session exists and never creates one.
func (r *Registry) View(sessionID string, fn func(*conversation.Context)) bool {
	e := r.lookup(sessionID, false)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.ctx)
	return true
}

// Delete removes a session, waiting out any in-flight turn first. It
// reports whether the session existed.
func (r *Registry) Delete(sessionID string) bool {
	r.mu.Lock()
	e, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	// Block until the current turn, if any, finishes.
	e.mu.Lock()
	e.mu.Unlock() //nolint:staticcheck // empty critical section is the point
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
