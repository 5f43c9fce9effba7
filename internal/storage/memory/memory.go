package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ycfeng/slimhub/internal/storage"
)

// MemoryStorage — in-memory реализация всех интерфейсов хранилища
type MemoryStorage struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]storage.UserRow
	byUsername  map[string]uuid.UUID
	plans       *PlansMemoryStorage
	foodLogs    *FoodLogMemoryStorage
	completions *CompletionsMemoryStorage
}

// New создаёт новый MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		users:       make(map[uuid.UUID]storage.UserRow),
		byUsername:  make(map[string]uuid.UUID),
		plans:       NewPlansMemoryStorage(),
		foodLogs:    NewFoodLogMemoryStorage(),
		completions: NewCompletionsMemoryStorage(),
	}
}

func (m *MemoryStorage) GetUser(ctx context.Context, id uuid.UUID) (*storage.UserRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copied := user
	copied.Profile = append([]byte(nil), user.Profile...)
	return &copied, nil
}

func (m *MemoryStorage) GetUserByUsername(ctx context.Context, username string) (*storage.UserRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byUsername[username]
	if !ok {
		return nil, storage.ErrNotFound
	}

	user := m.users[id]
	copied := user
	copied.Profile = append([]byte(nil), user.Profile...)
	return &copied, nil
}

func (m *MemoryStorage) CreateUser(ctx context.Context, user *storage.UserRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	stored := *user
	stored.Profile = append([]byte(nil), user.Profile...)
	stored.CreatedAt = now
	stored.UpdatedAt = now

	m.users[stored.ID] = stored
	m.byUsername[stored.Username] = stored.ID

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (m *MemoryStorage) UpdateUserProfile(ctx context.Context, id uuid.UUID, profile []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return storage.ErrNotFound
	}

	user.Profile = append([]byte(nil), profile...)
	user.UpdatedAt = time.Now()
	m.users[id] = user
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

// Plans возвращает хранилище кэша планов
func (m *MemoryStorage) Plans() storage.PlansStorage {
	return m.plans
}

// FoodLogs возвращает хранилище журналов питания
func (m *MemoryStorage) FoodLogs() storage.FoodLogStorage {
	return m.foodLogs
}

// Completions возвращает хранилище матриц выполнения
func (m *MemoryStorage) Completions() storage.CompletionsStorage {
	return m.completions
}
