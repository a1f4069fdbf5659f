package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wiblue/wiblue/internal/client"
	"github.com/wiblue/wiblue/internal/session"
)

// Common errors
var (
	// ErrNoInterface means no network interface is selected in the session;
	// the pipeline cannot start.
	ErrNoInterface = errors.New("no network interface selected")

	// ErrAuthMissing means the session lacks a token or user id; the sample
	// is dropped without a backend call.
	ErrAuthMissing = errors.New("authentication missing")
)

// Source delivers pushed samples for a named interface. Unsubscribing stops
// delivery; an in-flight sample already handed to the pipeline still
// completes its processing.
type Source interface {
	Subscribe(iface string, handler func(Sample)) (unsubscribe func() error, err error)
}

// Pipeline consumes pushed samples for the selected interface, records a
// delta on the backend and refreshes the aggregation cache. Samples are
// processed strictly sequentially by a single goroutine. A failed
// submission is reported and skipped; the pipeline stays active.
type Pipeline struct {
	api   *client.Client
	store *session.Store
	cache *Cache
	src   Source

	// OnError, when set, receives every per-sample failure so the caller
	// can surface it with a retry affordance.
	OnError func(error)

	mu      sync.Mutex
	unsub   func() error
	done    chan struct{}
	samples chan Sample
}

// NewPipeline creates a pipeline over src.
func NewPipeline(api *client.Client, store *session.Store, cache *Cache, src Source) *Pipeline {
	return &Pipeline{
		api:   api,
		store: store,
		cache: cache,
		src:   src,
	}
}

// Start subscribes for the currently selected interface and begins
// processing. A missing interface selection is a fatal setup error.
func (p *Pipeline) Start(ctx context.Context) error {
	snap := p.store.Snapshot()
	if snap.Interface == "" {
		return ErrNoInterface
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done != nil {
		return errors.New("pipeline already started")
	}

	p.samples = make(chan Sample, 64)
	p.done = make(chan struct{})

	samples := p.samples
	unsub, err := p.src.Subscribe(snap.Interface, func(s Sample) {
		select {
		case samples <- s:
		default:
			log.Warn().Str("interface", snap.Interface).Msg("Sample queue full, dropping sample")
		}
	})
	if err != nil {
		p.done = nil
		p.samples = nil
		return fmt.Errorf("subscribe %s: %w", Subject(snap.Interface), err)
	}
	p.unsub = unsub

	go p.run(ctx)

	log.Info().Str("interface", snap.Interface).Msg("Stats pipeline started")
	return nil
}

// Stop deregisters the subscription. An in-flight submission completes but
// its result is discarded.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done == nil {
		return
	}

	if p.unsub != nil {
		if err := p.unsub(); err != nil {
			log.Error().Err(err).Msg("Failed to unsubscribe stats source")
		}
		p.unsub = nil
	}

	close(p.done)
	p.done = nil

	log.Info().Msg("Stats pipeline stopped")
}

// run is the single consumer goroutine; it keeps sample processing
// sequential.
func (p *Pipeline) run(ctx context.Context) {
	p.mu.Lock()
	done := p.done
	samples := p.samples
	p.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case s := <-samples:
			if err := p.Process(ctx, s); err != nil {
				log.Warn().Err(err).Msg("Sample processing failed")
				if p.OnError != nil {
					p.OnError(err)
				}
			}
		}
	}
}

// Process handles one sample: submit the delta, then refresh the
// aggregation cache. A submission failure skips the refresh; the cache
// keeps its previous rows.
func (p *Pipeline) Process(ctx context.Context, s Sample) error {
	snap := p.store.Snapshot()
	if snap.Token == "" || snap.UserID == "" {
		return ErrAuthMissing
	}

	req := client.StatRequest{
		UserID:  snap.UserID,
		SSID:    snap.Interface,
		RxBytes: s.BytesDown,
		TxBytes: s.BytesUp,
	}

	if err := p.api.AddStats(ctx, snap.Token, req); err != nil {
		return fmt.Errorf("submit stats: %w", err)
	}

	if err := p.cache.Refresh(ctx, snap.Token, snap.UserID); err != nil {
		return fmt.Errorf("refresh aggregated stats: %w", err)
	}

	return nil
}
