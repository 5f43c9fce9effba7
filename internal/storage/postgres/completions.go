package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ycfeng/slimhub/internal/storage"
)

// PostgresCompletionsStorage implements storage.CompletionsStorage for Postgres.
type PostgresCompletionsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresCompletionsStorage(pool *pgxpool.Pool) *PostgresCompletionsStorage {
	return &PostgresCompletionsStorage{pool: pool}
}

func (s *PostgresCompletionsStorage) GetCompletionMatrix(ctx context.Context, userID uuid.UUID) (*storage.CompletionMatrixRow, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT user_id, payload, updated_at
		FROM completion_matrices
		WHERE user_id = $1
	`

	var row storage.CompletionMatrixRow
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

func (s *PostgresCompletionsStorage) UpsertCompletionMatrix(ctx context.Context, userID uuid.UUID, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO completion_matrices (user_id, payload)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = now()
	`

	_, err := s.pool.Exec(ctx, query, userID, payload)
	return err
}
