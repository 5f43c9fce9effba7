package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound возвращается, когда запись отсутствует в хранилище.
var ErrNotFound = errors.New("record not found")

// UserRow представляет пользователя и его профиль
type UserRow struct {
	ID        uuid.UUID
	Username  string
	Profile   []byte // JSON с параметрами профиля (возраст, рост, вес и т.д.)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CachedPlanRow — строка из plan_cache: сгенерированный план одного вида
type CachedPlanRow struct {
	UserID      uuid.UUID
	Kind        string // "diet" или "sport"
	Payload     []byte // JSON плана
	GeneratedAt time.Time
	UpdatedAt   time.Time
}

// FoodJournalRow — недельный журнал питания пользователя целиком
type FoodJournalRow struct {
	UserID    uuid.UUID
	Payload   []byte // JSON: записи по дням + агрегаты калорий
	UpdatedAt time.Time
}

// CompletionMatrixRow — матрица выполнения упражнений за неделю
type CompletionMatrixRow struct {
	UserID    uuid.UUID
	Payload   []byte // JSON: [][]bool, 7 дней
	UpdatedAt time.Time
}

// Storage — интерфейс для работы с пользователями
type Storage interface {
	// GetUser возвращает пользователя по ID
	GetUser(ctx context.Context, id uuid.UUID) (*UserRow, error)

	// GetUserByUsername возвращает пользователя по имени
	GetUserByUsername(ctx context.Context, username string) (*UserRow, error)

	// CreateUser создаёт нового пользователя
	CreateUser(ctx context.Context, user *UserRow) error

	// UpdateUserProfile обновляет профиль пользователя
	UpdateUserProfile(ctx context.Context, id uuid.UUID, profile []byte) error

	// Close закрывает соединение (для Postgres)
	Close() error
}

// PlansStorage — интерфейс кэша сгенерированных планов
type PlansStorage interface {
	// GetCachedPlan возвращает кэшированный план (ErrNotFound, если нет)
	GetCachedPlan(ctx context.Context, userID uuid.UUID, kind string) (*CachedPlanRow, error)

	// UpsertCachedPlan перезаписывает план и метку времени генерации
	UpsertCachedPlan(ctx context.Context, userID uuid.UUID, kind string, payload []byte, generatedAt time.Time) error

	// DeleteCachedPlan удаляет план из кэша
	DeleteCachedPlan(ctx context.Context, userID uuid.UUID, kind string) error
}

// FoodLogStorage — интерфейс журнала питания.
// Журнал читается и записывается целиком: записи и агрегаты
// меняются одной операцией.
type FoodLogStorage interface {
	// GetFoodJournal возвращает журнал пользователя (ErrNotFound, если нет)
	GetFoodJournal(ctx context.Context, userID uuid.UUID) (*FoodJournalRow, error)

	// UpsertFoodJournal перезаписывает журнал целиком
	UpsertFoodJournal(ctx context.Context, userID uuid.UUID, payload []byte) error
}

// CompletionsStorage — интерфейс матрицы выполнения тренировок
type CompletionsStorage interface {
	// GetCompletionMatrix возвращает матрицу (ErrNotFound, если нет)
	GetCompletionMatrix(ctx context.Context, userID uuid.UUID) (*CompletionMatrixRow, error)

	// UpsertCompletionMatrix перезаписывает матрицу целиком
	UpsertCompletionMatrix(ctx context.Context, userID uuid.UUID, payload []byte) error
}
