package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/wiblue/wiblue/internal/models"
)

// PostgresStore implements Store for PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// ========== User Methods ==========

// CreateUser creates a new user
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
        INSERT INTO users (
            id, created_at, updated_at, username, email, password_hash, is_active
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7
        )`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.CreatedAt, user.UpdatedAt, user.Username, user.Email,
		user.PasswordHash, user.IsActive,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateKey
		}
		return err
	}

	return nil
}

// GetUser gets a user by ID
func (s *PostgresStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
        SELECT id, created_at, updated_at, username, email, password_hash,
               is_active, last_login_at
        FROM users
        WHERE id = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail gets a user by email
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
        SELECT id, created_at, updated_at, username, email, password_hash,
               is_active, last_login_at
        FROM users
        WHERE email = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetUserByUsername gets a user by username
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
        SELECT id, created_at, updated_at, username, email, password_hash,
               is_active, last_login_at
        FROM users
        WHERE username = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

// UpdateUser updates a user
func (s *PostgresStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	query := `
        UPDATE users
        SET updated_at = $2, username = $3, email = $4, password_hash = $5,
            is_active = $6, last_login_at = $7
        WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		user.ID, user.UpdatedAt, user.Username, user.Email, user.PasswordHash,
		user.IsActive, user.LastLoginAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateKey
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Username, &user.Email,
		&user.PasswordHash, &user.IsActive, &user.LastLoginAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return user, err
}

// ========== Stats Methods ==========

// AddNetworkStat records one usage sample
func (s *PostgresStore) AddNetworkStat(ctx context.Context, stat *models.NetworkStat) error {
	if stat.ID == uuid.Nil {
		stat.ID = uuid.New()
	}
	if stat.RecordedAt.IsZero() {
		stat.RecordedAt = time.Now()
	}

	query := `
        INSERT INTO network_stats (
            id, user_id, ssid, rx_bytes, tx_bytes, recorded_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6
        )`

	_, err := s.db.ExecContext(ctx, query,
		stat.ID, stat.UserID, stat.SSID, stat.RxBytes, stat.TxBytes, stat.RecordedAt,
	)
	return err
}

// GetAggregatedStats returns per-SSID usage totals for a user
func (s *PostgresStore) GetAggregatedStats(ctx context.Context, userID uuid.UUID) ([]models.AggregatedStat, error) {
	query := `
        SELECT ssid, COALESCE(SUM(tx_bytes), 0), COALESCE(SUM(rx_bytes), 0)
        FROM network_stats
        WHERE user_id = $1
        GROUP BY ssid
        ORDER BY ssid`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.AggregatedStat
	for rows.Next() {
		var stat models.AggregatedStat
		if err := rows.Scan(&stat.SSID, &stat.TotalBytesUp, &stat.TotalBytesDown); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}

// ========== Seen Network Methods ==========

// AddSeenNetworks upserts networks a user has observed
func (s *PostgresStore) AddSeenNetworks(ctx context.Context, userID uuid.UUID, networks []models.SeenNetwork) error {
	query := `
        INSERT INTO seen_networks (user_id, ssid, bssid, security, mode)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, bssid) DO UPDATE
        SET ssid = EXCLUDED.ssid, security = EXCLUDED.security, mode = EXCLUDED.mode`

	for _, network := range networks {
		_, err := s.db.ExecContext(ctx, query,
			userID, network.SSID, network.BSSID, network.Security, network.Mode,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// ListSeenNetworks lists networks a user has observed
func (s *PostgresStore) ListSeenNetworks(ctx context.Context, userID uuid.UUID) ([]models.SeenNetwork, error) {
	query := `
        SELECT ssid, bssid, security, mode
        FROM seen_networks
        WHERE user_id = $1
        ORDER BY ssid`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var networks []models.SeenNetwork
	for rows.Next() {
		var network models.SeenNetwork
		if err := rows.Scan(&network.SSID, &network.BSSID, &network.Security, &network.Mode); err != nil {
			return nil, err
		}
		networks = append(networks, network)
	}

	return networks, rows.Err()
}
