package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ycfeng/slimhub/internal/storage"
)

// CompletionsMemoryStorage implements storage.CompletionsStorage in memory.
type CompletionsMemoryStorage struct {
	mu       sync.RWMutex
	matrices map[uuid.UUID]storage.CompletionMatrixRow
}

func NewCompletionsMemoryStorage() *CompletionsMemoryStorage {
	return &CompletionsMemoryStorage{
		matrices: make(map[uuid.UUID]storage.CompletionMatrixRow),
	}
}

func (s *CompletionsMemoryStorage) GetCompletionMatrix(ctx context.Context, userID uuid.UUID) (*storage.CompletionMatrixRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.matrices[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copied := row
	copied.Payload = append([]byte(nil), row.Payload...)
	return &copied, nil
}

func (s *CompletionsMemoryStorage) UpsertCompletionMatrix(ctx context.Context, userID uuid.UUID, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matrices[userID] = storage.CompletionMatrixRow{
		UserID:    userID,
		Payload:   append([]byte(nil), payload...),
		UpdatedAt: time.Now(),
	}
	return nil
}
