package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ycfeng/slimhub/internal/storage"
)

// PlansMemoryStorage implements storage.PlansStorage in memory.
type PlansMemoryStorage struct {
	mu    sync.RWMutex
	plans map[string]storage.CachedPlanRow // userID:kind -> row
}

func NewPlansMemoryStorage() *PlansMemoryStorage {
	return &PlansMemoryStorage{
		plans: make(map[string]storage.CachedPlanRow),
	}
}

func planKey(userID uuid.UUID, kind string) string {
	return userID.String() + ":" + kind
}

func (s *PlansMemoryStorage) GetCachedPlan(ctx context.Context, userID uuid.UUID, kind string) (*storage.CachedPlanRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.plans[planKey(userID, kind)]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copied := row
	copied.Payload = append([]byte(nil), row.Payload...)
	return &copied, nil
}

func (s *PlansMemoryStorage) UpsertCachedPlan(ctx context.Context, userID uuid.UUID, kind string, payload []byte, generatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.plans[planKey(userID, kind)] = storage.CachedPlanRow{
		UserID:      userID,
		Kind:        kind,
		Payload:     append([]byte(nil), payload...),
		GeneratedAt: generatedAt,
		UpdatedAt:   time.Now(),
	}
	return nil
}

func (s *PlansMemoryStorage) DeleteCachedPlan(ctx context.Context, userID uuid.UUID, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.plans, planKey(userID, kind))
	return nil
}
