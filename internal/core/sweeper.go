package core

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultSweepPeriod = 10 * time.Second

// Sweeper periodically probes every registered handle and evicts the ones
// that no longer accept deliveries. Clients never announce a disconnect;
// this is the only thing that reclaims their entries when the transport
// dies without the session noticing.
type Sweeper struct {
	registry *Registry
	period   time.Duration
}

func NewSweeper(reg *Registry, period time.Duration) *Sweeper {
	if period <= 0 {
		period = DefaultSweepPeriod
	}
	return &Sweeper{registry: reg, period: period}
}

// Run blocks until ctx is cancelled, sweeping once per period. It never
// touches the router's path: probing works against a snapshot and the
// registry lock is only taken for the final removals.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	log.Info().Str("module", "core.sweeper").Dur("period", s.period).Msg("sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "core.sweeper").Msg("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep keeps only the entries whose probe enqueue succeeds. One failed
// probe means immediate eviction, no retry; a connection that dies between
// probe and removal is caught on the next tick. Entries registered mid-tick
// are untouched because removal compares against the snapshotted handle.
func (s *Sweeper) sweep() {
	entries := s.registry.Snapshot()
	if len(entries) == 0 {
		return
	}

	dead := make([]bool, len(entries))
	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func(i int, e Entry) {
			defer wg.Done()
			dead[i] = e.Handle.Probe() != nil
		}(i, e)
	}
	wg.Wait()

	evicted := 0
	for i, e := range entries {
		if dead[i] && s.registry.Discard(e.ID, e.Handle) {
			evicted++
			log.Info().Str("module", "core.sweeper").Str("client", string(e.ID)).Msg("evicted stale client")
		}
	}
	if evicted > 0 {
		log.Info().Str("module", "core.sweeper").Int("evicted", evicted).Int("alive", s.registry.Len()).Msg("sweep done")
	}
}
