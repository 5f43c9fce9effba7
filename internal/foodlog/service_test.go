package foodlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ycfeng/slimhub/internal/storage/memory"
)

func setupFoodLogTest() (*Service, string) {
	memStorage := memory.New()
	service := NewService(memStorage.FoodLogs())
	return service, uuid.NewString()
}

func TestAddEntryMergesSameFood(t *testing.T) {
	service, userID := setupFoodLogTest()
	ctx := context.Background()

	entry := FoodEntry{FoodName: "Apple", MealType: MealSnack, Calories: 95}

	if _, err := service.AddEntry(ctx, userID, 0, entry); err != nil {
		t.Fatalf("first AddEntry failed: %v", err)
	}
	resp, err := service.AddEntry(ctx, userID, 0, entry)
	if err != nil {
		t.Fatalf("second AddEntry failed: %v", err)
	}

	if len(resp.Entries) != 1 {
		t.Fatalf("expected 1 merged entry, got %d", len(resp.Entries))
	}
	if resp.Entries[0].Calories != 190 {
		t.Errorf("expected merged calories 190, got %d", resp.Entries[0].Calories)
	}
	if resp.TotalCalories != 190 {
		t.Errorf("expected total 190, got %d", resp.TotalCalories)
	}
	if resp.MealCalories.Snack != 190 {
		t.Errorf("expected snack total 190, got %d", resp.MealCalories.Snack)
	}
}

func TestAddEntrySameFoodDifferentMealStaysSeparate(t *testing.T) {
	service, userID := setupFoodLogTest()
	ctx := context.Background()

	if _, err := service.AddEntry(ctx, userID, 2, FoodEntry{FoodName: "Rice", MealType: MealLunch, Calories: 200}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	resp, err := service.AddEntry(ctx, userID, 2, FoodEntry{FoodName: "Rice", MealType: MealDinner, Calories: 180})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	if len(resp.Entries) != 2 {
		t.Fatalf("expected 2 entries for different meal types, got %d", len(resp.Entries))
	}
	if resp.TotalCalories != 380 {
		t.Errorf("expected total 380, got %d", resp.TotalCalories)
	}
	if resp.MealCalories.Lunch != 200 || resp.MealCalories.Dinner != 180 {
		t.Errorf("unexpected meal split: %+v", resp.MealCalories)
	}
}

func TestAddEntryRefreshesTime(t *testing.T) {
	service, userID := setupFoodLogTest()
	ctx := context.Background()

	service.now = func() time.Time { return time.Date(2025, 3, 10, 8, 15, 0, 0, time.UTC) }
	if _, err := service.AddEntry(ctx, userID, 0, FoodEntry{FoodName: "Coffee", MealType: MealBreakfast, Calories: 5}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	service.now = func() time.Time { return time.Date(2025, 3, 10, 16, 40, 0, 0, time.UTC) }
	resp, err := service.AddEntry(ctx, userID, 0, FoodEntry{FoodName: "Coffee", MealType: MealBreakfast, Calories: 5})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	if resp.Entries[0].Time != "16:40" {
		t.Errorf("expected refreshed time 16:40, got %q", resp.Entries[0].Time)
	}
}

func TestAddEntryValidation(t *testing.T) {
	service, userID := setupFoodLogTest()
	ctx := context.Background()

	if _, err := service.AddEntry(ctx, userID, 7, FoodEntry{FoodName: "Apple", MealType: MealSnack, Calories: 95}); !errors.Is(err, ErrInvalidDay) {
		t.Errorf("expected ErrInvalidDay, got %v", err)
	}
	if _, err := service.AddEntry(ctx, userID, -1, FoodEntry{FoodName: "Apple", MealType: MealSnack, Calories: 95}); !errors.Is(err, ErrInvalidDay) {
		t.Errorf("expected ErrInvalidDay, got %v", err)
	}
	if _, err := service.AddEntry(ctx, userID, 0, FoodEntry{FoodName: "Apple", MealType: "brunch", Calories: 95}); !errors.Is(err, ErrInvalidMealType) {
		t.Errorf("expected ErrInvalidMealType, got %v", err)
	}
	if _, err := service.AddEntry(ctx, userID, 0, FoodEntry{MealType: MealSnack, Calories: 95}); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestNegativeCaloriesClampToZero(t *testing.T) {
	service, userID := setupFoodLogTest()

	resp, err := service.AddEntry(context.Background(), userID, 0, FoodEntry{FoodName: "Mystery", MealType: MealSnack, Calories: -50})
	if err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if resp.TotalCalories != 0 {
		t.Errorf("expected total 0 for negative calories, got %d", resp.TotalCalories)
	}
}

func TestGetDayEmptyJournal(t *testing.T) {
	service, userID := setupFoodLogTest()

	resp, err := service.GetDay(context.Background(), userID, 3)
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	if len(resp.Entries) != 0 {
		t.Errorf("expected empty day, got %d entries", len(resp.Entries))
	}
	if resp.TotalCalories != 0 {
		t.Errorf("expected zero total, got %d", resp.TotalCalories)
	}
}

func TestTotalsConsistentAcrossDays(t *testing.T) {
	service, userID := setupFoodLogTest()
	ctx := context.Background()

	if _, err := service.AddEntry(ctx, userID, 0, FoodEntry{FoodName: "Toast", MealType: MealBreakfast, Calories: 150}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if _, err := service.AddEntry(ctx, userID, 4, FoodEntry{FoodName: "Soup", MealType: MealLunch, Calories: 220}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	journal, err := service.GetJournal(ctx, userID)
	if err != nil {
		t.Fatalf("GetJournal failed: %v", err)
	}

	for d := range journal.Days {
		var sum int
		for _, entry := range journal.Days[d] {
			sum += entry.Calories
		}
		if journal.DailyCalories[d] != sum {
			t.Errorf("day %d: stored total %d, recomputed %d", d, journal.DailyCalories[d], sum)
		}
	}
}
