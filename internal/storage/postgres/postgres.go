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

const queryTimeout = 5 * time.Second

// PostgresStorage — Postgres реализация всех интерфейсов хранилища
type PostgresStorage struct {
	pool        *pgxpool.Pool
	plans       *PostgresPlansStorage
	foodLogs    *PostgresFoodLogStorage
	completions *PostgresCompletionsStorage
}

// New создаёт PostgresStorage и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:        pool,
		plans:       NewPostgresPlansStorage(pool),
		foodLogs:    NewPostgresFoodLogStorage(pool),
		completions: NewPostgresCompletionsStorage(pool),
	}, nil
}

func (p *PostgresStorage) GetUser(ctx context.Context, id uuid.UUID) (*storage.UserRow, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, username, profile, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user storage.UserRow
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Profile,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (p *PostgresStorage) GetUserByUsername(ctx context.Context, username string) (*storage.UserRow, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, username, profile, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	var user storage.UserRow
	err := p.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Profile,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (p *PostgresStorage) CreateUser(ctx context.Context, user *storage.UserRow) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO users (id, username, profile)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	return p.pool.QueryRow(ctx, query, user.ID, user.Username, user.Profile).Scan(
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

func (p *PostgresStorage) UpdateUserProfile(ctx context.Context, id uuid.UUID, profile []byte) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE users
		SET profile = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query, id, profile)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// Plans возвращает хранилище кэша планов
func (p *PostgresStorage) Plans() storage.PlansStorage {
	return p.plans
}

// FoodLogs возвращает хранилище журналов питания
func (p *PostgresStorage) FoodLogs() storage.FoodLogStorage {
	return p.foodLogs
}

// Completions возвращает хранилище матриц выполнения
func (p *PostgresStorage) Completions() storage.CompletionsStorage {
	return p.completions
}
