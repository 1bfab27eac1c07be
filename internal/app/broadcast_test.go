package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchroom/internal/domain"
)

func TestUpdatePlaybackOwnerOnly(t *testing.T) {
	o := newTestOrch()
	room, ownerConn := createTestRoom(t, o, "conn-1", CreateRoomRequest{Name: "r", UserName: "alice"})
	_, _, guestConn := joinTestRoom(t, o, "conn-2", room.ID, "", "bob")

	st := &domain.PlaybackState{Kind: domain.StateKindPlay, VideoID: "ep1", PositionSeconds: 10, IsPlaying: true}
	o.UpdatePlayback("conn-1", st)

	rs, _ := o.Rooms.Get(room.ID)
	require.NotNil(t, rs.Snapshot().CurrentState)
	assert.Equal(t, "ep1", rs.Snapshot().CurrentState.VideoID)

	// everyone but the sender gets exactly one copy
	evts := guestConn.eventsOfType(t, EvtPlayUpdate)
	require.Len(t, evts, 1)
	var got domain.PlaybackState
	require.NoError(t, json.Unmarshal(evts[0].Data, &got))
	assert.Equal(t, *st, got)
	assert.Empty(t, ownerConn.eventsOfType(t, EvtPlayUpdate))
}

func TestUpdatePlaybackFromNonOwnerIsDropped(t *testing.T) {
	o := newTestOrch()
	room, ownerConn := createTestRoom(t, o, "conn-1", CreateRoomRequest{Name: "r", UserName: "alice"})
	joinTestRoom(t, o, "conn-2", room.ID, "", "bob")

	o.UpdatePlayback("conn-2", &domain.PlaybackState{Kind: domain.StateKindPlay, VideoID: "hijack"})

	rs, _ := o.Rooms.Get(room.ID)
	assert.Nil(t, rs.Snapshot().CurrentState, "state must stay unchanged")
	assert.Empty(t, ownerConn.eventsOfType(t, EvtPlayUpdate))
}

func TestUpdatePlaybackUnboundIsDropped(t *testing.T) {
	o := newTestOrch()
	o.UpdatePlayback("ghost", &domain.PlaybackState{Kind: domain.StateKindPlay})
}

func TestChangeContentReplacesState(t *testing.T) {
	o := newTestOrch()
	room, _ := createTestRoom(t, o, "conn-1", CreateRoomRequest{Name: "r", UserName: "alice"})
	_, _, guestConn := joinTestRoom(t, o, "conn-2", room.ID, "", "bob")

	o.ChangeContent("conn-1", &domain.PlaybackState{Kind: domain.StateKindPlay, VideoID: "ep2"})

	rs, _ := o.Rooms.Get(room.ID)
	assert.Equal(t, "ep2", rs.Snapshot().CurrentState.VideoID)
	assert.Len(t, guestConn.eventsOfType(t, EvtPlayChange), 1)
}

func TestChangeLive(t *testing.T) {
	o := newTestOrch()
	room, _ := createTestRoom(t, o, "conn-1", CreateRoomRequest{Name: "r", UserName: "alice"})
	_, _, guestConn := joinTestRoom(t, o, "conn-2", room.ID, "", "bob")

	o.ChangeLive("conn-1", &domain.PlaybackState{Kind: domain.StateKindLive, ChannelID: "news", ChannelName: "News 24"})

	rs, _ := o.Rooms.Get(room.ID)
	assert.Equal(t, domain.StateKindLive, rs.Snapshot().CurrentState.Kind)
	assert.Len(t, guestConn.eventsOfType(t, EvtLiveChange), 1)
}

func TestSeekIsOpenToAnyMember(t *testing.T) {
	o := newTestOrch()
	room, ownerConn := createTestRoom(t, o, "conn-1", CreateRoomRequest{Name: "r", UserName: "alice"})
	_, _, guestConn := joinTestRoom(t, o, "conn-2", room.ID, "", "bob")

	o.Seek("conn-2", 93.5)

	evts := ownerConn.eventsOfType(t, EvtPlaySeek)
	require.Len(t, evts, 1)
	var seconds float64
	require.NoError(t, json.Unmarshal(evts[0].Data, &seconds))
	assert.Equal(t, 93.5, seconds)
	assert.Empty(t, guestConn.eventsOfType(t, EvtPlaySeek))

	// seek is transient, nothing stored
	rs, _ := o.Rooms.Get(room.ID)
	assert.Nil(t, rs.Snapshot().CurrentState)
}

func TestPlayPauseRelayToOthers(t *testing.T) {
	o := newTestOrch()
	room, ownerConn := createTestRoom(t, o, "conn-1", CreateRoomRequest{Name: "r", UserName: "alice"})
	_, _, guestConn := joinTestRoom(t, o, "conn-2", room.ID, "", "bob")

	o.Play("conn-2")
	o.Pause("conn-1")

	assert.Len(t, ownerConn.eventsOfType(t, EvtPlayPlay), 1)
	assert.Len(t, guestConn.eventsOfType(t, EvtPlayPause), 1)
	assert.Empty(t, guestConn.eventsOfType(t, EvtPlayPlay))
	assert.Empty(t, ownerConn.eventsOfType(t, EvtPlayPause))
}

func TestChatReachesEveryoneIncludingSender(t *testing.T) {
	o := newTestOrch()
	room, ownerConn := createTestRoom(t, o, "conn-1", CreateRoomRequest{Name: "r", UserName: "alice"})
	_, _, guestConn := joinTestRoom(t, o, "conn-2", room.ID, "", "bob")

	o.Chat("conn-2", "hello", domain.ChatTypeText)

	for _, conn := range []*fakeConn{ownerConn, guestConn} {
		evts := conn.eventsOfType(t, EvtChatMessage)
		require.Len(t, evts, 1)
		var msg domain.ChatMessage
		require.NoError(t, json.Unmarshal(evts[0].Data, &msg))
		assert.NotEmpty(t, msg.ID)
		assert.Equal(t, domain.UserID("conn-2"), msg.UserID)
		assert.Equal(t, "bob", msg.UserName)
		assert.Equal(t, "hello", msg.Content)
		assert.Equal(t, domain.ChatTypeText, msg.Type)
		assert.False(t, msg.Timestamp.IsZero())
	}
}

func TestChatMessageIDsAreUnique(t *testing.T) {
	o := newTestOrch()
	_, ownerConn := createTestRoom(t, o, "conn-1", CreateRoomRequest{Name: "r", UserName: "alice"})

	o.Chat("conn-1", "one", domain.ChatTypeText)
	o.Chat("conn-1", "two", domain.ChatTypeEmoji)

	evts := ownerConn.eventsOfType(t, EvtChatMessage)
	require.Len(t, evts, 2)
	var first, second domain.ChatMessage
	require.NoError(t, json.Unmarshal(evts[0].Data, &first))
	require.NoError(t, json.Unmarshal(evts[1].Data, &second))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestChatDropsEmptyAndUnbound(t *testing.T) {
	o := newTestOrch()
	_, ownerConn := createTestRoom(t, o, "conn-1", CreateRoomRequest{Name: "r", UserName: "alice"})

	o.Chat("conn-1", "", domain.ChatTypeText)
	o.Chat("ghost", "hi", domain.ChatTypeText)

	assert.Empty(t, ownerConn.eventsOfType(t, EvtChatMessage))
}
