package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ycfeng/slimhub/internal/ai"
	"github.com/ycfeng/slimhub/internal/config"
	"github.com/ycfeng/slimhub/internal/plan"
	"github.com/ycfeng/slimhub/internal/storage"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUnknownKind  = errors.New("unknown plan kind")
)

// Service keeps one generated plan per user and kind, regenerating it
// when the cached copy is older than the TTL or a refresh is forced.
type Service struct {
	cfg         *config.Config
	users       storage.Storage
	plans       storage.PlansStorage
	completions storage.CompletionsStorage
	provider    ai.Provider

	now func() time.Time

	// Последний выигрывает: устаревшие генерации не перезаписывают кэш.
	mu  sync.Mutex
	seq map[string]uint64
}

func NewService(cfg *config.Config, users storage.Storage, plans storage.PlansStorage, completions storage.CompletionsStorage, provider ai.Provider) *Service {
	return &Service{
		cfg:         cfg,
		users:       users,
		plans:       plans,
		completions: completions,
		provider:    provider,
		now:         time.Now,
		seq:         make(map[string]uint64),
	}
}

// PlanResult — план с метаданными кэша
type PlanResult struct {
	Kind        plan.Kind       `json:"kind"`
	Plan        json.RawMessage `json:"plan"`
	GeneratedAt time.Time       `json:"generated_at"`
	FromCache   bool            `json:"from_cache"`
}

// GetPlan returns the cached plan when it is younger than the TTL,
// otherwise regenerates. force skips the freshness check. A failed
// regeneration never destroys the cached copy: the error is surfaced
// and the stored plan stays as it was, so a retry starts from the
// same state.
func (s *Service) GetPlan(ctx context.Context, userID string, kind plan.Kind, force bool) (*PlanResult, error) {
	if kind != plan.KindDiet && kind != plan.KindSport {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	cached, err := s.plans.GetCachedPlan(ctx, uid, string(kind))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	ttl := time.Duration(s.cfg.PlanCacheTTLHours) * time.Hour
	if cached != nil && !force && s.now().Sub(cached.GeneratedAt) < ttl {
		return &PlanResult{
			Kind:        kind,
			Plan:        json.RawMessage(cached.Payload),
			GeneratedAt: cached.GeneratedAt,
			FromCache:   true,
		}, nil
	}

	result, genErr := s.regenerate(ctx, uid, kind)
	if genErr != nil {
		if cached != nil {
			log.Printf("WARN planner: regeneration failed for user=%s kind=%s, cached plan preserved: %v", userID, kind, genErr)
		}
		return nil, genErr
	}

	return result, nil
}

func (s *Service) regenerate(ctx context.Context, userID uuid.UUID, kind plan.Kind) (*PlanResult, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	token := s.nextSeq(userID, kind)

	var payload []byte
	var sportPlan *plan.SportPlan

	switch kind {
	case plan.KindDiet:
		dietPlan, err := s.provider.GenerateDietPlan(ctx, *profile)
		if err != nil {
			return nil, err
		}
		payload, err = json.Marshal(dietPlan)
		if err != nil {
			return nil, err
		}
	case plan.KindSport:
		sportPlan, err = s.provider.GenerateSportPlan(ctx, *profile)
		if err != nil {
			return nil, err
		}
		payload, err = json.Marshal(sportPlan)
		if err != nil {
			return nil, err
		}
	}

	generatedAt := s.now()

	if !s.isCurrent(userID, kind, token) {
		// A newer request finished first; do not clobber its result.
		log.Printf("INFO planner: discarding superseded %s plan for user=%s", kind, userID)
		return &PlanResult{
			Kind:        kind,
			Plan:        json.RawMessage(payload),
			GeneratedAt: generatedAt,
		}, nil
	}

	if err := s.plans.UpsertCachedPlan(ctx, userID, string(kind), payload, generatedAt); err != nil {
		return nil, err
	}

	// A fresh workout plan invalidates old completion marks: the
	// matrix is rebuilt to the new plan's shape, all unchecked.
	if kind == plan.KindSport && sportPlan != nil {
		if err := s.resetCompletionMatrix(ctx, userID, sportPlan); err != nil {
			return nil, err
		}
	}

	return &PlanResult{
		Kind:        kind,
		Plan:        json.RawMessage(payload),
		GeneratedAt: generatedAt,
	}, nil
}

func (s *Service) resetCompletionMatrix(ctx context.Context, userID uuid.UUID, sportPlan *plan.SportPlan) error {
	counts := sportPlan.ExerciseCounts()

	matrix := make([][]bool, len(counts))
	for i, n := range counts {
		matrix[i] = make([]bool, n)
	}

	payload, err := json.Marshal(matrix)
	if err != nil {
		return err
	}
	return s.completions.UpsertCompletionMatrix(ctx, userID, payload)
}

func (s *Service) loadProfile(ctx context.Context, userID uuid.UUID) (*plan.UserProfile, error) {
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var profile plan.UserProfile
	if len(user.Profile) > 0 {
		if err := json.Unmarshal(user.Profile, &profile); err != nil {
			return nil, fmt.Errorf("failed to decode stored profile: %w", err)
		}
	}
	profile.ID = user.ID.String()
	profile.Username = user.Username

	return &profile, nil
}

func (s *Service) nextSeq(userID uuid.UUID, kind plan.Kind) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userID.String() + ":" + string(kind)
	s.seq[key]++
	return s.seq[key]
}

func (s *Service) isCurrent(userID uuid.UUID, kind plan.Kind, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.seq[userID.String()+":"+string(kind)] == token
}
