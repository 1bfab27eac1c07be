package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"watchroom/internal/core"
)

// Wire event names, shared by the orchestrator (server push) and the
// websocket adapter (dispatch).
const (
	EvtRoomCreate   = "room:create"
	EvtRoomJoin     = "room:join"
	EvtRoomLeave    = "room:leave"
	EvtRoomList     = "room:list"
	EvtMemberJoined = "room:member-joined"
	EvtMemberLeft   = "room:member-left"
	EvtRoomDeleted  = "room:deleted"

	EvtPlayUpdate = "play:update"
	EvtPlaySeek   = "play:seek"
	EvtPlayPlay   = "play:play"
	EvtPlayPause  = "play:pause"
	EvtPlayChange = "play:change"
	EvtLiveChange = "live:change"

	EvtChatMessage = "chat:message"

	EvtVoiceOffer  = "voice:offer"
	EvtVoiceAnswer = "voice:answer"
	EvtVoiceICE    = "voice:ice"

	EvtHeartbeat = "heartbeat"
)

// Event is the JSON envelope every frame carries, in both directions.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func encodeEvent(typ string, v any) (core.Frame, bool) {
	var (
		data []byte
		err  error
	)
	if v != nil {
		if data, err = json.Marshal(v); err != nil {
			log.Error().Err(err).Str("module", "app.events").Str("type", typ).Msg("marshal event data")
			return nil, false
		}
	}
	frame, err := json.Marshal(Event{Type: typ, Data: data})
	if err != nil {
		log.Error().Err(err).Str("module", "app.events").Str("type", typ).Msg("marshal event")
		return nil, false
	}
	return frame, true
}
