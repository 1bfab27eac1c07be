package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"watchroom/internal/core"
	"watchroom/internal/domain"
)

// RoomBinding is the server-side record of where a connection currently
// lives. Every per-connection event trusts this, never client claims.
type RoomBinding struct {
	RoomID   domain.RoomID
	UserID   domain.UserID
	UserName string
	IsOwner  bool
}

// Registry maps live connections to their transport endpoint and, once
// joined, to their room binding. Pure table; callers must have already
// authorized what they bind.
type Registry struct {
	mu       sync.RWMutex
	conns    map[core.ConnID]core.ClientConn
	bindings map[core.ConnID]RoomBinding
}

func NewRegistry() *Registry {
	return &Registry{
		conns:    make(map[core.ConnID]core.ClientConn),
		bindings: make(map[core.ConnID]RoomBinding),
	}
}

// Register makes the connection addressable for unicast relay.
func (r *Registry) Register(id core.ConnID, conn core.ClientConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = conn
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("connection registered")
}

// Unregister drops the connection and any room binding it still holds.
func (r *Registry) Unregister(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
	delete(r.bindings, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("connection unregistered")
}

func (r *Registry) Conn(id core.ConnID) (core.ClientConn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

func (r *Registry) Bind(id core.ConnID, b RoomBinding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[id] = b
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(b.RoomID)).Bool("owner", b.IsOwner).Msg("bound to room")
}

// Unbind clears the room binding but keeps the connection registered.
func (r *Registry) Unbind(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unbound from room")
}

func (r *Registry) Lookup(id core.ConnID) (RoomBinding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[id]
	return b, ok
}
