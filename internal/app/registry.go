package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sujals170/Bright-Byte-sub000/internal/core"
	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
)

type connEntry struct {
	SessionID domain.SessionID // empty until join-session
	Session   core.ParticipantSession
	Cancel    context.CancelFunc
}

// Registry is the authoritative map from connection to participant session
// and current live-session membership. It is owned by the relay process;
// participants only mutate it through join/leave funneled by the relay.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnID]*connEntry)}
}

// Bind registers a freshly authenticated connection before it joins any
// session.
func (r *Registry) Bind(cid core.ConnID, ps core.ParticipantSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[cid] = &connEntry{Session: ps, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("bound connection")
}

func (r *Registry) Get(cid core.ConnID) (core.ParticipantSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[cid]; ok {
		return e.Session, true
	}
	return nil, false
}

func (r *Registry) SessionOf(cid core.ConnID) (domain.SessionID, core.ParticipantSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[cid]
	if !ok || e.SessionID == "" {
		return "", nil, false
	}
	return e.SessionID, e.Session, true
}

func (r *Registry) SetSession(cid core.ConnID, sid domain.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[cid]
	if !ok {
		return false
	}
	e.SessionID = sid
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("session", string(sid)).Msg("joined session")
	return true
}

func (r *Registry) ClearSession(cid core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[cid]; ok {
		e.SessionID = ""
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("cleared session association")
}

// Unbind drops the connection entirely. Idempotent.
func (r *Registry) Unbind(cid core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, cid)
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("unbound connection")
}

func (r *Registry) Cancel(cid core.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[cid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	return true
}
