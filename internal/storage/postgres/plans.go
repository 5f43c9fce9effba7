package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ycfeng/slimhub/internal/storage"
)

// PostgresPlansStorage implements storage.PlansStorage for Postgres.
type PostgresPlansStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresPlansStorage(pool *pgxpool.Pool) *PostgresPlansStorage {
	return &PostgresPlansStorage{pool: pool}
}

func (s *PostgresPlansStorage) GetCachedPlan(ctx context.Context, userID uuid.UUID, kind string) (*storage.CachedPlanRow, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT user_id, kind, payload, generated_at, updated_at
		FROM plan_cache
		WHERE user_id = $1 AND kind = $2
	`

	var row storage.CachedPlanRow
	err := s.pool.QueryRow(ctx, query, userID, kind).Scan(
		&row.UserID,
		&row.Kind,
		&row.Payload,
		&row.GeneratedAt,
		&row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &row, nil
}

func (s *PostgresPlansStorage) UpsertCachedPlan(ctx context.Context, userID uuid.UUID, kind string, payload []byte, generatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO plan_cache (user_id, kind, payload, generated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, kind)
		DO UPDATE SET
			payload = EXCLUDED.payload,
			generated_at = EXCLUDED.generated_at,
			updated_at = now()
	`

	_, err := s.pool.Exec(ctx, query, userID, kind, payload, generatedAt)
	return err
}

func (s *PostgresPlansStorage) DeleteCachedPlan(ctx context.Context, userID uuid.UUID, kind string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `DELETE FROM plan_cache WHERE user_id = $1 AND kind = $2`, userID, kind)
	return err
}
