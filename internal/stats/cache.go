package stats

import (
	"context"
	"sync"

	"github.com/wiblue/wiblue/internal/client"
	"github.com/wiblue/wiblue/internal/models"
)

// Cache holds the latest full set of aggregated usage rows. The backend is
// the source of truth: every successful refresh replaces the rows wholesale,
// and a failed refresh leaves the previous rows untouched.
type Cache struct {
	api *client.Client

	mu   sync.Mutex
	rows []models.AggregatedStat
}

// NewCache creates an empty cache backed by api.
func NewCache(api *client.Client) *Cache {
	return &Cache{api: api}
}

// Refresh fetches the full aggregated list for the user. On error the
// previous rows remain available.
func (c *Cache) Refresh(ctx context.Context, token, userID string) error {
	rows, err := c.api.GetStats(ctx, token, userID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.rows = rows
	c.mu.Unlock()

	return nil
}

// Rows returns a copy of the cached rows.
func (c *Cache) Rows() []models.AggregatedStat {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.AggregatedStat, len(c.rows))
	copy(out, c.rows)
	return out
}
