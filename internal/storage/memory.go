package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wiblue/wiblue/internal/models"
)

// MemoryStore implements Store in memory. Used for tests and for running
// the backend without a database.
type MemoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
	stats []models.NetworkStat
	seen  map[uuid.UUID]map[string]models.SeenNetwork
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[uuid.UUID]*models.User),
		seen:  make(map[uuid.UUID]map[string]models.SeenNetwork),
	}
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// CreateUser creates a new user
func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return ErrDuplicateKey
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// GetUser gets a user by ID
func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// GetUserByEmail gets a user by email
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// GetUserByUsername gets a user by username
func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateUser updates a user
func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}

	user.UpdatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// AddNetworkStat records one usage sample
func (s *MemoryStore) AddNetworkStat(ctx context.Context, stat *models.NetworkStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stat.ID == uuid.Nil {
		stat.ID = uuid.New()
	}
	if stat.RecordedAt.IsZero() {
		stat.RecordedAt = time.Now()
	}

	s.stats = append(s.stats, *stat)
	return nil
}

// GetAggregatedStats returns per-SSID usage totals for a user
func (s *MemoryStore) GetAggregatedStats(ctx context.Context, userID uuid.UUID) ([]models.AggregatedStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]*models.AggregatedStat)
	for _, stat := range s.stats {
		if stat.UserID != userID {
			continue
		}
		row, ok := totals[stat.SSID]
		if !ok {
			row = &models.AggregatedStat{SSID: stat.SSID}
			totals[stat.SSID] = row
		}
		row.TotalBytesUp += stat.TxBytes
		row.TotalBytesDown += stat.RxBytes
	}

	out := make([]models.AggregatedStat, 0, len(totals))
	for _, row := range totals {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SSID < out[j].SSID })

	return out, nil
}

// AddSeenNetworks upserts networks a user has observed
func (s *MemoryStore) AddSeenNetworks(ctx context.Context, userID uuid.UUID, networks []models.SeenNetwork) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byBSSID, ok := s.seen[userID]
	if !ok {
		byBSSID = make(map[string]models.SeenNetwork)
		s.seen[userID] = byBSSID
	}
	for _, network := range networks {
		byBSSID[network.BSSID] = network
	}
	return nil
}

// ListSeenNetworks lists networks a user has observed
func (s *MemoryStore) ListSeenNetworks(ctx context.Context, userID uuid.UUID) ([]models.SeenNetwork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var networks []models.SeenNetwork
	for _, network := range s.seen[userID] {
		networks = append(networks, network)
	}
	sort.Slice(networks, func(i, j int) bool { return networks[i].SSID < networks[j].SSID })

	return networks, nil
}
