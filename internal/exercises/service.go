package exercises

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ycfeng/slimhub/internal/ai"
	"github.com/ycfeng/slimhub/internal/plan"
)

var ErrEmptyName = errors.New("exercise name is required")

// Service fetches reference details for exercises. Details are static
// content, so successful lookups are cached by name for the process
// lifetime.
type Service struct {
	provider ai.Provider

	mu    sync.RWMutex
	cache map[string]*plan.ExerciseDetail
}

func NewService(provider ai.Provider) *Service {
	return &Service{
		provider: provider,
		cache:    make(map[string]*plan.ExerciseDetail),
	}
}

func (s *Service) Detail(ctx context.Context, name string) (*plan.ExerciseDetail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	key := strings.ToLower(name)

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	detail, err := s.provider.ExerciseDetail(ctx, name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[key] = detail
	s.mu.Unlock()

	return detail, nil
}
