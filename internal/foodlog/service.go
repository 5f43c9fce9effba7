package foodlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ycfeng/slimhub/internal/plan"
	"github.com/ycfeng/slimhub/internal/storage"
)

var (
	ErrInvalidDay      = errors.New("day must be between 0 and 6")
	ErrInvalidMealType = errors.New("unknown meal type")
	ErrInvalidEntry    = errors.New("invalid food entry")
)

// Service keeps the weekly food journal. Entries with the same name and
// meal type merge into one line, and the per-day totals grow by the same
// amount in the same write so they can never drift apart.
type Service struct {
	journals storage.FoodLogStorage

	now func() time.Time
}

func NewService(journals storage.FoodLogStorage) *Service {
	return &Service{
		journals: journals,
		now:      time.Now,
	}
}

// AddEntry merges the entry into the journal and persists the whole
// journal in one write.
func (s *Service) AddEntry(ctx context.Context, userID string, day int, entry FoodEntry) (*DayResponse, error) {
	if day < 0 || day >= plan.DaysPerWeek {
		return nil, ErrInvalidDay
	}
	if !validMealType(entry.MealType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMealType, entry.MealType)
	}
	if entry.FoodName == "" {
		return nil, fmt.Errorf("%w: food_name is required", ErrInvalidEntry)
	}
	if entry.Calories < 0 {
		entry.Calories = 0
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad user id", ErrInvalidEntry)
	}

	journal, err := s.loadJournal(ctx, uid)
	if err != nil {
		return nil, err
	}

	entry.Time = s.now().Format("15:04")
	mergeEntry(&journal.Days[day], entry)
	addToTotals(journal, day, entry.MealType, entry.Calories)

	payload, err := json.Marshal(journal)
	if err != nil {
		return nil, err
	}
	if err := s.journals.UpsertFoodJournal(ctx, uid, payload); err != nil {
		return nil, err
	}

	return dayResponse(journal, day), nil
}

// GetDay returns the entries and totals for one weekday.
func (s *Service) GetDay(ctx context.Context, userID string, day int) (*DayResponse, error) {
	if day < 0 || day >= plan.DaysPerWeek {
		return nil, ErrInvalidDay
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad user id", ErrInvalidEntry)
	}

	journal, err := s.loadJournal(ctx, uid)
	if err != nil {
		return nil, err
	}

	return dayResponse(journal, day), nil
}

// GetJournal returns the whole week.
func (s *Service) GetJournal(ctx context.Context, userID string) (*Journal, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad user id", ErrInvalidEntry)
	}
	return s.loadJournal(ctx, uid)
}

func (s *Service) loadJournal(ctx context.Context, userID uuid.UUID) (*Journal, error) {
	row, err := s.journals.GetFoodJournal(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return &Journal{}, nil
	}
	if err != nil {
		return nil, err
	}

	var journal Journal
	if err := json.Unmarshal(row.Payload, &journal); err != nil {
		return nil, fmt.Errorf("failed to decode journal: %w", err)
	}
	return &journal, nil
}

// mergeEntry folds the new entry into the day. A line with the same
// food name and meal type grows its calories and refreshes its time
// instead of duplicating.
func mergeEntry(day *[]FoodEntry, entry FoodEntry) {
	for i := range *day {
		existing := &(*day)[i]
		if existing.FoodName == entry.FoodName && existing.MealType == entry.MealType {
			existing.Calories += entry.Calories
			existing.Time = entry.Time
			if entry.Amount != "" {
				existing.Amount = entry.Amount
			}
			if entry.ImageURL != "" {
				existing.ImageURL = entry.ImageURL
			}
			return
		}
	}
	*day = append(*day, entry)
}

// addToTotals applies one entry's calories to the day total and the
// matching meal total. Both move together with the merged entry, inside
// the same journal object, so a single persist covers all three.
func addToTotals(journal *Journal, day int, mealType string, calories int) {
	journal.DailyCalories[day] += calories
	meals := &journal.MealCalories[day]
	switch mealType {
	case MealBreakfast:
		meals.Breakfast += calories
	case MealLunch:
		meals.Lunch += calories
	case MealDinner:
		meals.Dinner += calories
	case MealSnack:
		meals.Snack += calories
	}
}

func dayResponse(journal *Journal, day int) *DayResponse {
	entries := journal.Days[day]
	if entries == nil {
		entries = []FoodEntry{}
	}
	return &DayResponse{
		Day:           day,
		Entries:       entries,
		TotalCalories: journal.DailyCalories[day],
		MealCalories:  journal.MealCalories[day],
	}
}

func validMealType(mealType string) bool {
	switch mealType {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}
