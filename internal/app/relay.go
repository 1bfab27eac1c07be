package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"watchroom/internal/core"
	"watchroom/internal/domain"
)

// SignalPayload is what the target receives: the sender's identity plus
// the untouched negotiation payload.
type SignalPayload struct {
	UserID  domain.UserID   `json:"userId"`
	Payload json.RawMessage `json:"payload"`
}

// Relay unicasts a peer-negotiation payload to the target connection.
// The caller must hold a room binding; the payload is opaque and the
// target is taken as-is — no same-room check, matching the original
// trust boundary.
func (o *Orchestrator) Relay(id core.ConnID, evt string, target core.ConnID, payload json.RawMessage) {
	if _, ok := o.Registry.Lookup(id); !ok {
		return
	}
	conn, ok := o.Registry.Conn(target)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("target", string(target)).Msg("relay target gone")
		return
	}
	frame, ok := encodeEvent(evt, SignalPayload{UserID: domain.UserID(id), Payload: payload})
	if !ok {
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Str("module", "app.relay").Str("target", string(target)).Msg("relay frame dropped")
	}
}
