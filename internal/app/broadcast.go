package app

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"watchroom/internal/core"
	"watchroom/internal/domain"
)

// Playback, chat and control fan-out. All of it is fire-and-forget:
// unbound or unauthorized callers are dropped silently, never errored.

// UpdatePlayback stores the owner's state and re-emits it to everyone
// else. Non-owner calls change nothing.
func (o *Orchestrator) UpdatePlayback(id core.ConnID, st *domain.PlaybackState) {
	o.setState(id, EvtPlayUpdate, st)
}

// ChangeContent is a full content switch rather than a progress delta;
// same authority and propagation rule as UpdatePlayback.
func (o *Orchestrator) ChangeContent(id core.ConnID, st *domain.PlaybackState) {
	o.setState(id, EvtPlayChange, st)
}

// ChangeLive switches the room to a live channel, owner only.
func (o *Orchestrator) ChangeLive(id core.ConnID, st *domain.PlaybackState) {
	o.setState(id, EvtLiveChange, st)
}

func (o *Orchestrator) setState(id core.ConnID, evt string, st *domain.PlaybackState) {
	binding, ok := o.Registry.Lookup(id)
	if !ok || !binding.IsOwner {
		return
	}
	rs, ok := o.Rooms.Get(binding.RoomID)
	if !ok {
		return
	}
	rs.SetState(st)
	if frame, ok := encodeEvent(evt, st); ok {
		rs.Broadcast(binding.UserID, frame)
	}
	log.Debug().Str("module", "app.broadcast").Str("room", string(binding.RoomID)).Str("event", evt).Msg("state replicated")
}

// Seek relays a position jump. Any member may trigger it and nothing is
// stored; it is a transient control signal.
func (o *Orchestrator) Seek(id core.ConnID, seconds float64) {
	o.relayControl(id, EvtPlaySeek, seconds)
}

func (o *Orchestrator) Play(id core.ConnID) {
	o.relayControl(id, EvtPlayPlay, nil)
}

func (o *Orchestrator) Pause(id core.ConnID) {
	o.relayControl(id, EvtPlayPause, nil)
}

func (o *Orchestrator) relayControl(id core.ConnID, evt string, v any) {
	binding, ok := o.Registry.Lookup(id)
	if !ok {
		return
	}
	rs, ok := o.Rooms.Get(binding.RoomID)
	if !ok {
		return
	}
	if frame, ok := encodeEvent(evt, v); ok {
		rs.Broadcast(binding.UserID, frame)
	}
}

// Chat stamps the message with a server-generated ID and timestamp and
// delivers it to the whole room, sender included.
func (o *Orchestrator) Chat(id core.ConnID, content string, typ domain.ChatType) {
	binding, ok := o.Registry.Lookup(id)
	if !ok {
		return
	}
	if content == "" || len(content) > domain.MaxChatMsgLen {
		return
	}
	if typ != domain.ChatTypeText && typ != domain.ChatTypeEmoji {
		typ = domain.ChatTypeText
	}
	rs, ok := o.Rooms.Get(binding.RoomID)
	if !ok {
		return
	}
	msg := domain.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    binding.UserID,
		UserName:  binding.UserName,
		Content:   content,
		Type:      typ,
		Timestamp: time.Now(),
	}
	if frame, ok := encodeEvent(EvtChatMessage, msg); ok {
		rs.Broadcast("", frame)
	}
}
