package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper reclaims rooms whose owner stopped heartbeating. It is the
// only mechanism that removes rooms abandoned by a vanished owner.
type Sweeper struct {
	Orch     *Orchestrator
	Interval time.Duration
	Timeout  time.Duration
}

// Run blocks until ctx is canceled, scanning at every tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	log.Info().Str("module", "app.sweeper").Dur("interval", s.Interval).Dur("timeout", s.Timeout).Msg("sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.sweeper").Msg("sweeper stopped")
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// Sweep deletes every room whose owner heartbeat is older than the
// timeout. Exposed for tests; Run is the production entry.
func (s *Sweeper) Sweep(now time.Time) {
	for _, rs := range s.Orch.Rooms.All() {
		if now.Sub(rs.LastOwnerHeartbeat()) > s.Timeout {
			log.Info().Str("module", "app.sweeper").Str("room", string(rs.ID())).Msg("owner heartbeat timed out, deleting room")
			s.Orch.DeleteRoom(rs)
		}
	}
}
