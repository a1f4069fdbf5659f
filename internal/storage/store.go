package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/wiblue/wiblue/internal/models"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidData  = errors.New("invalid data")
)

// Store defines the storage interface
type Store interface {
	// User methods
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Stats methods
	AddNetworkStat(ctx context.Context, stat *models.NetworkStat) error
	GetAggregatedStats(ctx context.Context, userID uuid.UUID) ([]models.AggregatedStat, error)

	// Seen network methods
	AddSeenNetworks(ctx context.Context, userID uuid.UUID, networks []models.SeenNetwork) error
	ListSeenNetworks(ctx context.Context, userID uuid.UUID) ([]models.SeenNetwork, error)

	Close() error
}
