package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"watchroom/internal/domain"
)

type memberEntry struct {
	member *domain.Member
	conn   ClientConn
}

// RoomState is one room's record plus its membership table, behind a
// single mutex. All mutations of a room go through here; no cross-room
// locking exists. It never closes adapter-owned connections.
type RoomState struct {
	mu      sync.Mutex
	room    domain.Room
	members map[domain.UserID]*memberEntry
}

func NewRoomState(room domain.Room) *RoomState {
	return &RoomState{
		room:    room,
		members: make(map[domain.UserID]*memberEntry),
	}
}

func (r *RoomState) ID() domain.RoomID { return r.room.ID }

// Snapshot returns a copy of the room record with the member count
// recomputed from the live membership table.
func (r *RoomState) Snapshot() domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	room := r.room
	room.MemberCount = len(r.members)
	return room
}

func (r *RoomState) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

func (r *RoomState) MembersSnapshot() []domain.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Member, 0, len(r.members))
	for _, e := range r.members {
		out = append(out, *e.member)
	}
	return out
}

func (r *RoomState) AddMember(m *domain.Member, conn ClientConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[m.ID] = &memberEntry{member: m, conn: conn}
	r.room.MemberCount = len(r.members)
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("user", string(m.ID)).Msg("member added")
}

// RemoveMember drops the membership row and reports how many members
// remain. The caller decides whether the room itself dies.
func (r *RoomState) RemoveMember(id domain.UserID) (remaining int, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return len(r.members), false
	}
	delete(r.members, id)
	r.room.MemberCount = len(r.members)
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("user", string(id)).Msg("member removed")
	return len(r.members), true
}

// SetState replaces the room's current content state. Authority is the
// caller's problem; the room only stores.
func (r *RoomState) SetState(st *domain.PlaybackState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.room.CurrentState = st
}

// Heartbeat refreshes the member's liveness stamp and, for the owner,
// the room's owner stamp the sweeper watches.
func (r *RoomState) Heartbeat(id domain.UserID, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.members[id]
	if !ok {
		return
	}
	e.member.LastHeartbeat = now
	if e.member.IsOwner {
		r.room.LastOwnerHeartbeat = now
	}
}

func (r *RoomState) LastOwnerHeartbeat() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.room.LastOwnerHeartbeat
}

// Broadcast fans a frame out to every member except one (pass "" to hit
// everyone). TrySend is non-blocking, so holding the lock here never
// waits on a slow consumer.
func (r *RoomState) Broadcast(exclude domain.UserID, data Frame) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	sent := 0
	for id, e := range r.members {
		if id == exclude {
			continue
		}
		if err := e.conn.TrySend(data); err != nil {
			log.Warn().Str("module", "core.room").Str("room", string(r.room.ID)).Str("user", string(id)).Msg("dropped frame")
			continue
		}
		sent++
	}
	return sent
}
