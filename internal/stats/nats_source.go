package stats

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSSource adapts a NATS connection into a sample Source.
type NATSSource struct {
	nc *nats.Conn
}

// NewNATSSource creates a source over nc.
func NewNATSSource(nc *nats.Conn) *NATSSource {
	return &NATSSource{nc: nc}
}

// Subscribe subscribes to the push subject for iface and decodes each
// message into a Sample.
func (s *NATSSource) Subscribe(iface string, handler func(Sample)) (func() error, error) {
	sub, err := s.nc.Subscribe(Subject(iface), func(msg *nats.Msg) {
		var sample Sample
		if err := json.Unmarshal(msg.Data, &sample); err != nil {
			log.Error().Err(err).Str("subject", msg.Subject).Msg("Failed to unmarshal sample")
			return
		}
		handler(sample)
	})
	if err != nil {
		return nil, err
	}

	return sub.Unsubscribe, nil
}
