package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ycfeng/slimhub/internal/plan"
	"github.com/ycfeng/slimhub/internal/storage"
)

var (
	ErrNoSportPlan     = errors.New("no workout plan generated yet")
	ErrIndexOutOfRange = errors.New("exercise index out of range")
	ErrInvalidDay      = errors.New("day must be between 0 and 6")
	ErrBadUserID       = errors.New("bad user id")
)

// Service tracks which exercises of the cached workout plan are done.
// The matrix mirrors the plan's shape: one row per day, one flag per
// exercise. Toggles go through a copy so a failed write never leaves a
// half-updated matrix behind.
type Service struct {
	plans       storage.PlansStorage
	completions storage.CompletionsStorage
}

func NewService(plans storage.PlansStorage, completions storage.CompletionsStorage) *Service {
	return &Service{
		plans:       plans,
		completions: completions,
	}
}

// Toggle flips one completion flag and returns the updated day.
func (s *Service) Toggle(ctx context.Context, userID string, day, exercise int) (*DayStatus, error) {
	if day < 0 || day >= plan.DaysPerWeek {
		return nil, ErrInvalidDay
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrBadUserID
	}

	sportPlan, err := s.loadSportPlan(ctx, uid)
	if err != nil {
		return nil, err
	}

	matrix, err := s.loadMatrix(ctx, uid, sportPlan)
	if err != nil {
		return nil, err
	}

	if day >= len(matrix) || exercise < 0 || exercise >= len(matrix[day]) {
		return nil, fmt.Errorf("%w: day %d exercise %d", ErrIndexOutOfRange, day, exercise)
	}

	// Copy-on-write: mutate a copy, persist it, and only then adopt it.
	updated := copyMatrix(matrix)
	updated[day][exercise] = !updated[day][exercise]

	payload, err := json.Marshal(updated)
	if err != nil {
		return nil, err
	}
	if err := s.completions.UpsertCompletionMatrix(ctx, uid, payload); err != nil {
		return nil, err
	}

	return dayStatus(sportPlan, updated, day), nil
}

// GetDay returns one day of the plan with completion marks.
func (s *Service) GetDay(ctx context.Context, userID string, day int) (*DayStatus, error) {
	if day < 0 || day >= plan.DaysPerWeek {
		return nil, ErrInvalidDay
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrBadUserID
	}

	sportPlan, err := s.loadSportPlan(ctx, uid)
	if err != nil {
		return nil, err
	}

	matrix, err := s.loadMatrix(ctx, uid, sportPlan)
	if err != nil {
		return nil, err
	}

	return dayStatus(sportPlan, matrix, day), nil
}

// Summary returns burned calories per day and for the whole week,
// counting completed exercises only.
func (s *Service) Summary(ctx context.Context, userID string) (*WeekSummary, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrBadUserID
	}

	sportPlan, err := s.loadSportPlan(ctx, uid)
	if err != nil {
		return nil, err
	}

	matrix, err := s.loadMatrix(ctx, uid, sportPlan)
	if err != nil {
		return nil, err
	}

	summary := &WeekSummary{}
	for d := 0; d < len(sportPlan.Days) && d < plan.DaysPerWeek; d++ {
		for i, exercise := range sportPlan.Days[d].Exercises {
			summary.TotalCount++
			if d < len(matrix) && i < len(matrix[d]) && matrix[d][i] {
				summary.DoneCount++
				kcal := exercise.Calories.Int()
				summary.Days[d] += kcal
				summary.WeekTotal += kcal
			}
		}
	}

	return summary, nil
}

func (s *Service) loadSportPlan(ctx context.Context, userID uuid.UUID) (*plan.SportPlan, error) {
	row, err := s.plans.GetCachedPlan(ctx, userID, string(plan.KindSport))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoSportPlan
	}
	if err != nil {
		return nil, err
	}

	var sportPlan plan.SportPlan
	if err := json.Unmarshal(row.Payload, &sportPlan); err != nil {
		return nil, fmt.Errorf("failed to decode cached workout plan: %w", err)
	}
	return &sportPlan, nil
}

// loadMatrix returns the stored matrix conformed to the plan's shape.
// Marks that still fit stay; rows and cells beyond the plan are cut,
// missing ones start unchecked.
func (s *Service) loadMatrix(ctx context.Context, userID uuid.UUID, sportPlan *plan.SportPlan) ([][]bool, error) {
	counts := sportPlan.ExerciseCounts()

	var stored [][]bool
	row, err := s.completions.GetCompletionMatrix(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(row.Payload, &stored); err != nil {
			return nil, fmt.Errorf("failed to decode completion matrix: %w", err)
		}
	}

	matrix := make([][]bool, len(counts))
	for d, n := range counts {
		matrix[d] = make([]bool, n)
		if d < len(stored) {
			copy(matrix[d], stored[d])
		}
	}
	return matrix, nil
}

func copyMatrix(matrix [][]bool) [][]bool {
	copied := make([][]bool, len(matrix))
	for i, row := range matrix {
		copied[i] = append([]bool(nil), row...)
	}
	return copied
}

func dayStatus(sportPlan *plan.SportPlan, matrix [][]bool, day int) *DayStatus {
	status := &DayStatus{
		Day:       day,
		Exercises: []ExerciseStatus{},
	}

	if day >= len(sportPlan.Days) {
		return status
	}

	planDay := sportPlan.Days[day]
	status.DayName = planDay.Day

	for i, exercise := range planDay.Exercises {
		done := day < len(matrix) && i < len(matrix[day]) && matrix[day][i]
		kcal := exercise.Calories.Int()

		status.Exercises = append(status.Exercises, ExerciseStatus{
			Index:     i,
			Name:      exercise.Name,
			Intensity: exercise.Intensity,
			SetsReps:  exercise.SetsReps,
			Duration:  exercise.Duration,
			Calories:  kcal,
			Done:      done,
		})
		if done {
			status.BurnedCalories += kcal
		}
	}

	return status
}
