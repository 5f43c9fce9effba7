package exercises

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ycfeng/slimhub/internal/ai"
	"github.com/ycfeng/slimhub/internal/plan"
)

type countingDetailProvider struct {
	*ai.MockProvider
	calls int
}

func (p *countingDetailProvider) ExerciseDetail(ctx context.Context, name string) (*plan.ExerciseDetail, error) {
	p.calls++
	return p.MockProvider.ExerciseDetail(ctx, name)
}

func TestDetailCachesByName(t *testing.T) {
	provider := &countingDetailProvider{MockProvider: ai.NewMockProvider()}
	service := NewService(provider)
	ctx := context.Background()

	first, err := service.Detail(ctx, "Squats")
	if err != nil {
		t.Fatalf("Detail failed: %v", err)
	}
	if first.Name != "Squats" {
		t.Errorf("unexpected name: %q", first.Name)
	}

	// Case-insensitive cache hit.
	if _, err := service.Detail(ctx, "squats"); err != nil {
		t.Fatalf("cached Detail failed: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.calls)
	}
}

func TestDetailEmptyName(t *testing.T) {
	service := NewService(ai.NewMockProvider())

	if _, err := service.Detail(context.Background(), "  "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestHandleDetail(t *testing.T) {
	service := NewService(ai.NewMockProvider())
	handler := NewHandlers(service)

	t.Run("Success", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/exercises/detail?name=Plank", nil)
		w := httptest.NewRecorder()

		handler.HandleDetail(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}
	})

	t.Run("MissingName", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/exercises/detail", nil)
		w := httptest.NewRecorder()

		handler.HandleDetail(w, r)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}
