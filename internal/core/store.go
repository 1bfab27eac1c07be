package core

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"watchroom/internal/domain"
)

const roomIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Store owns every live room. The map lock only guards the table;
// each RoomState carries its own mutex for record mutations.
type Store struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*RoomState
}

func NewStore() *Store {
	return &Store{rooms: make(map[domain.RoomID]*RoomState)}
}

func generateRoomID() domain.RoomID {
	b := make([]byte, domain.RoomIDLen)
	for i := range b {
		b[i] = roomIDAlphabet[rand.Intn(len(roomIDAlphabet))]
	}
	return domain.RoomID(b)
}

// Create allocates a collision-free room ID, stamps the record and
// inserts it. The passed room's ID and timestamps are overwritten.
func (s *Store) Create(room domain.Room) *RoomState {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := generateRoomID()
	for _, taken := s.rooms[id]; taken; _, taken = s.rooms[id] {
		id = generateRoomID()
	}

	now := time.Now()
	room.ID = id
	room.CreatedAt = now
	room.LastOwnerHeartbeat = now

	rs := NewRoomState(room)
	s.rooms[id] = rs
	log.Info().Str("module", "core.store").Str("room", string(id)).Str("name", room.Name).Msg("room created")
	return rs
}

func (s *Store) Get(id domain.RoomID) (*RoomState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.rooms[id]
	return rs, ok
}

func (s *Store) Delete(id domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	log.Info().Str("module", "core.store").Str("room", string(id)).Msg("room deleted")
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// ListPublic returns a point-in-time view of public rooms. It holds only
// the table lock; per-room snapshots may trail in-flight writes.
func (s *Store) ListPublic() []domain.Room {
	s.mu.RLock()
	states := make([]*RoomState, 0, len(s.rooms))
	for _, rs := range s.rooms {
		states = append(states, rs)
	}
	s.mu.RUnlock()

	out := make([]domain.Room, 0, len(states))
	for _, rs := range states {
		room := rs.Snapshot()
		if room.IsPublic {
			out = append(out, room)
		}
	}
	return out
}

// All is the sweeper's scan surface.
func (s *Store) All() []*RoomState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*RoomState, 0, len(s.rooms))
	for _, rs := range s.rooms {
		out = append(out, rs)
	}
	return out
}
