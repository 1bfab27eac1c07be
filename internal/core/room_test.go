package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchroom/internal/domain"
)

type captureConn struct {
	mu     sync.Mutex
	frames []Frame
}

func (c *captureConn) TrySend(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
	return nil
}

func (c *captureConn) Close() {}

func (c *captureConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func newRoomWithMembers(t *testing.T, names ...string) (*RoomState, map[domain.UserID]*captureConn) {
	t.Helper()
	rs := NewRoomState(domain.Room{ID: "ABC123", Name: "r"})
	conns := make(map[domain.UserID]*captureConn)
	for i, name := range names {
		id := domain.UserID(name)
		m, err := domain.NewMember(id, name, i == 0)
		require.NoError(t, err)
		c := &captureConn{}
		rs.AddMember(m, c)
		conns[id] = c
	}
	return rs, conns
}

func TestMemberCountTracksMembership(t *testing.T) {
	rs, _ := newRoomWithMembers(t, "alice", "bob", "carol")
	assert.Equal(t, 3, rs.MemberCount())
	assert.Equal(t, 3, rs.Snapshot().MemberCount)

	remaining, removed := rs.RemoveMember("bob")
	assert.True(t, removed)
	assert.Equal(t, 2, remaining)
	assert.Equal(t, 2, rs.Snapshot().MemberCount)
}

func TestRemoveMissingMember(t *testing.T) {
	rs, _ := newRoomWithMembers(t, "alice")
	remaining, removed := rs.RemoveMember("ghost")
	assert.False(t, removed)
	assert.Equal(t, 1, remaining)
}

func TestBroadcastExcludesSender(t *testing.T) {
	rs, conns := newRoomWithMembers(t, "alice", "bob", "carol")
	sent := rs.Broadcast("alice", Frame(`{"type":"play:update"}`))

	assert.Equal(t, 2, sent)
	assert.Zero(t, conns["alice"].count())
	assert.Equal(t, 1, conns["bob"].count())
	assert.Equal(t, 1, conns["carol"].count())
}

func TestBroadcastToEveryone(t *testing.T) {
	rs, conns := newRoomWithMembers(t, "alice", "bob")
	sent := rs.Broadcast("", Frame(`{"type":"chat:message"}`))

	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, conns["alice"].count())
	assert.Equal(t, 1, conns["bob"].count())
}

func TestSetStateReplacesCurrent(t *testing.T) {
	rs, _ := newRoomWithMembers(t, "alice")
	st := &domain.PlaybackState{Kind: domain.StateKindPlay, VideoID: "v1", PositionSeconds: 42, IsPlaying: true}
	rs.SetState(st)
	require.NotNil(t, rs.Snapshot().CurrentState)
	assert.Equal(t, "v1", rs.Snapshot().CurrentState.VideoID)

	live := &domain.PlaybackState{Kind: domain.StateKindLive, ChannelID: "news"}
	rs.SetState(live)
	assert.Equal(t, domain.StateKindLive, rs.Snapshot().CurrentState.Kind)
}

func TestMembersSnapshot(t *testing.T) {
	rs, _ := newRoomWithMembers(t, "alice", "bob")
	members := rs.MembersSnapshot()
	require.Len(t, members, 2)

	byID := make(map[domain.UserID]domain.Member)
	for _, m := range members {
		byID[m.ID] = m
	}
	assert.True(t, byID["alice"].IsOwner)
	assert.False(t, byID["bob"].IsOwner)
}
