package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ycfeng/slimhub/internal/storage"
)

// FoodLogMemoryStorage implements storage.FoodLogStorage in memory.
type FoodLogMemoryStorage struct {
	mu       sync.RWMutex
	journals map[uuid.UUID]storage.FoodJournalRow
}

func NewFoodLogMemoryStorage() *FoodLogMemoryStorage {
	return &FoodLogMemoryStorage{
		journals: make(map[uuid.UUID]storage.FoodJournalRow),
	}
}

func (s *FoodLogMemoryStorage) GetFoodJournal(ctx context.Context, userID uuid.UUID) (*storage.FoodJournalRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.journals[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copied := row
	copied.Payload = append([]byte(nil), row.Payload...)
	return &copied, nil
}

func (s *FoodLogMemoryStorage) UpsertFoodJournal(ctx context.Context, userID uuid.UUID, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.journals[userID] = storage.FoodJournalRow{
		UserID:    userID,
		Payload:   append([]byte(nil), payload...),
		UpdatedAt: time.Now(),
	}
	return nil
}
