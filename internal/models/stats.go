package models

import (
	"time"

	"github.com/google/uuid"
)

// NetworkStat is one recorded usage sample for a user and network.
type NetworkStat struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"userId" db:"user_id"`
	SSID       string    `json:"ssid" db:"ssid"`
	RxBytes    uint64    `json:"rxBytes" db:"rx_bytes"`
	TxBytes    uint64    `json:"txBytes" db:"tx_bytes"`
	RecordedAt time.Time `json:"recordedAt" db:"recorded_at"`
}

// AggregatedStat is one row of per-network usage totals.
type AggregatedStat struct {
	SSID           string `json:"ssid" db:"ssid"`
	TotalBytesUp   uint64 `json:"total_bytes_up" db:"total_bytes_up"`
	TotalBytesDown uint64 `json:"total_bytes_down" db:"total_bytes_down"`
}
