package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	psnet "github.com/shirou/gopsutil/v3/net"

	"github.com/wiblue/wiblue/internal/stats"
)

// Publisher pushes a sample payload onto a subject. Satisfied by
// *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// CounterFunc returns the cumulative rx/tx byte counters for iface.
type CounterFunc func(iface string) (rx, tx uint64, err error)

// Monitor samples interface byte counters at a fixed interval, derives
// speeds and cumulative totals since start, and publishes each sample for
// the ingestion side to consume.
type Monitor struct {
	iface    string
	interval time.Duration
	pub      Publisher
	counters CounterFunc

	lastRx, lastTx uint64
	lastAt         time.Time
	hasLast        bool

	totalDown, totalUp uint64
}

// New creates a monitor for iface, validating that the interface exists.
func New(iface string, interval time.Duration, pub Publisher) (*Monitor, error) {
	names, err := Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}

	found := false
	for _, name := range names {
		if name == iface {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("interface %q not found", iface)
	}

	return &Monitor{
		iface:    iface,
		interval: interval,
		pub:      pub,
		counters: systemCounters,
	}, nil
}

// Run samples and publishes until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	log.Info().
		Str("interface", m.iface).
		Dur("interval", m.interval).
		Msg("Network monitor started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			sample, err := m.sample(now)
			if err != nil {
				log.Error().Err(err).Msg("Failed to read interface counters")
				continue
			}
			if err := m.publish(sample); err != nil {
				log.Error().Err(err).Msg("Failed to publish sample")
			}
		}
	}
}

// sample reads the counters and derives speeds from the previous reading.
// Totals accumulate deltas since monitor start; counter resets saturate to
// zero instead of going negative.
func (m *Monitor) sample(now time.Time) (stats.Sample, error) {
	rx, tx, err := m.counters(m.iface)
	if err != nil {
		return stats.Sample{}, err
	}

	var speedDown, speedUp float64
	var downDiff, upDiff uint64

	if m.hasLast {
		elapsed := now.Sub(m.lastAt).Seconds()
		downDiff = saturatingSub(rx, m.lastRx)
		upDiff = saturatingSub(tx, m.lastTx)
		if elapsed > 0 {
			speedDown = float64(downDiff) / elapsed
			speedUp = float64(upDiff) / elapsed
		}
	}

	m.lastRx, m.lastTx, m.lastAt, m.hasLast = rx, tx, now, true
	m.totalDown += downDiff
	m.totalUp += upDiff

	return stats.Sample{
		BytesDown: rx,
		BytesUp:   tx,
		SpeedDown: speedDown,
		SpeedUp:   speedUp,
		TotalDown: m.totalDown,
		TotalUp:   m.totalUp,
	}, nil
}

func (m *Monitor) publish(sample stats.Sample) error {
	data, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("marshal sample: %w", err)
	}
	return m.pub.Publish(stats.Subject(m.iface), data)
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// systemCounters reads cumulative byte counters from the OS.
func systemCounters(iface string) (uint64, uint64, error) {
	counters, err := psnet.IOCounters(true)
	if err != nil {
		return 0, 0, err
	}
	for _, c := range counters {
		if c.Name == iface {
			return c.BytesRecv, c.BytesSent, nil
		}
	}
	return 0, 0, fmt.Errorf("interface %q not found", iface)
}
