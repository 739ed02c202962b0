package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wandernear/nearby-places/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository is the persistent address-to-coordinates cache. Keys are
// normalized, lower-cased address strings.
type Repository interface {
	GetCached(ctx context.Context, addressKey string) (*types.Position, error)
	SaveCached(ctx context.Context, addressKey string, pos types.Position) error
}

// PgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewPostgresRepository(pgpool PgxPool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

// NormalizeAddress produces the cache key for an address.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// GetCached returns the cached position for an address key, or nil when
// the key has never been resolved.
func (r *PostgresRepository) GetCached(ctx context.Context, addressKey string) (*types.Position, error) {
	query := `
        SELECT lat, lng
        FROM geocode_cache
        WHERE address_key = $1
    `
	var pos types.Position
	if err := r.pgpool.QueryRow(ctx, query, addressKey).Scan(&pos.Lat, &pos.Lng); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read geocode cache: %w", err)
	}
	return &pos, nil
}

// SaveCached stores a resolved position; a later lookup of the same key
// overwrites the previous value.
func (r *PostgresRepository) SaveCached(ctx context.Context, addressKey string, pos types.Position) error {
	query := `
        INSERT INTO geocode_cache (address_key, lat, lng, resolved_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (address_key)
        DO UPDATE SET lat = EXCLUDED.lat, lng = EXCLUDED.lng, resolved_at = now()
    `
	if _, err := r.pgpool.Exec(ctx, query, addressKey, pos.Lat, pos.Lng); err != nil {
		return fmt.Errorf("failed to write geocode cache: %w", err)
	}
	return nil
}
