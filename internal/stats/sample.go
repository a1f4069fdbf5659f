package stats

// Sample is one push event of raw counters for the monitored interface.
// Field names match the wire payload emitted by the network monitor.
// Samples are transient: consumed by the pipeline, never retained.
type Sample struct {
	BytesDown uint64  `json:"bytes_down"`
	BytesUp   uint64  `json:"bytes_up"`
	SpeedDown float64 `json:"speed_down"`
	SpeedUp   float64 `json:"speed_up"`
	TotalDown uint64  `json:"total_down"`
	TotalUp   uint64  `json:"total_up"`
}

// Subject returns the push subject samples for iface are delivered on.
func Subject(iface string) string {
	return "network_stats." + iface
}
