package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiblue/wiblue/internal/models"
)

func TestUserLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "a@b.c", IsActive: true}
	require.NoError(t, store.CreateUser(ctx, user))
	require.NotEqual(t, uuid.Nil, user.ID)

	dup := &models.User{Username: "alice", Email: "other@b.c"}
	assert.ErrorIs(t, store.CreateUser(ctx, dup), ErrDuplicateKey)

	byID, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byEmail, err := store.GetUserByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID.Username = "alice2"
	require.NoError(t, store.UpdateUser(ctx, byID))

	byUsername, err := store.GetUserByUsername(ctx, "alice2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	_, err = store.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAggregationGroupsBySSID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()
	otherID := uuid.New()

	stats := []models.NetworkStat{
		{UserID: userID, SSID: "home", RxBytes: 200, TxBytes: 100},
		{UserID: userID, SSID: "home", RxBytes: 300, TxBytes: 50},
		{UserID: userID, SSID: "office", RxBytes: 10, TxBytes: 5},
		{UserID: otherID, SSID: "home", RxBytes: 999, TxBytes: 999},
	}
	for i := range stats {
		require.NoError(t, store.AddNetworkStat(ctx, &stats[i]))
	}

	rows, err := store.GetAggregatedStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []models.AggregatedStat{
		{SSID: "home", TotalBytesUp: 150, TotalBytesDown: 500},
		{SSID: "office", TotalBytesUp: 5, TotalBytesDown: 10},
	}, rows)
}

func TestSeenNetworksUpsertByBSSID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	first := []models.SeenNetwork{{SSID: "home", BSSID: "aa:bb", Security: models.SecurityWPA2, Mode: models.ModeInfra}}
	require.NoError(t, store.AddSeenNetworks(ctx, userID, first))

	renamed := []models.SeenNetwork{{SSID: "home-5g", BSSID: "aa:bb", Security: models.SecurityWPA3, Mode: models.ModeInfra}}
	require.NoError(t, store.AddSeenNetworks(ctx, userID, renamed))

	networks, err := store.ListSeenNetworks(ctx, userID)
	require.NoError(t, err)
	require.Len(t, networks, 1)
	assert.Equal(t, "home-5g", networks[0].SSID)
	assert.Equal(t, models.SecurityWPA3, networks[0].Security)
}
