package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ycfeng/slimhub/internal/storage"
)

// PostgresFoodLogStorage implements storage.FoodLogStorage for Postgres.
// The journal is a single jsonb row per user, so entries and calorie
// totals always change in one statement.
type PostgresFoodLogStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresFoodLogStorage(pool *pgxpool.Pool) *PostgresFoodLogStorage {
	return &PostgresFoodLogStorage{pool: pool}
}

func (s *PostgresFoodLogStorage) GetFoodJournal(ctx context.Context, userID uuid.UUID) (*storage.FoodJournalRow, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT user_id, payload, updated_at
		FROM food_journals
		WHERE user_id = $1
	`

	var row storage.FoodJournalRow
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&row.UserID,
		&row.Payload,
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

func (s *PostgresFoodLogStorage) UpsertFoodJournal(ctx context.Context, userID uuid.UUID, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO food_journals (user_id, payload)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = now()
	`

	_, err := s.pool.Exec(ctx, query, userID, payload)
	return err
}
