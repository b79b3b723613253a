package resolution

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"macrolog/internal/cache"
	"macrolog/internal/model"

	"github.com/google/uuid"
)

// Session is one in-flight food resolution. A session's steps are strictly
// sequential: the mutex covers state reads and writes, and network calls
// run with the mutex released so Cancel never blocks behind them. The
// generation counter makes a response that arrives after Cancel a no-op.
type Session struct {
	wf *Workflow

	mu         sync.Mutex
	state      State
	generation int

	input    string
	food     *model.FoodRecord
	estimate *model.NutritionEstimate
	result   *CommitResult
	lastErr  error
}

// CommitResult describes what a successful Confirm persisted.
type CommitResult struct {
	Food  model.FoodRecord
	Entry model.DailyLogEntry
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Estimate returns the estimate under review, or nil.
func (s *Session) Estimate() *model.NutritionEstimate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.estimate == nil {
		return nil
	}
	copied := *s.estimate
	return &copied
}

// Result returns what the session committed, or nil before StateDone.
func (s *Session) Result() *CommitResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	copied := *s.result
	return &copied
}

// Err returns the error that put the session into StateFailed, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Search matches the query against the local catalogue snapshot to build
// the autocomplete list. Synchronous; never touches the network.
func (s *Session) Search(query string) ([]model.FoodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle && s.state != StateSearching {
		return nil, fmt.Errorf("cannot search in state %s", s.state)
	}
	s.state = StateSearching

	return s.wf.catalog.Search(query), nil
}

// Submit resolves the typed name: an exact catalogue hit moves the session
// to KnownFood, a miss invokes the estimator exactly once and moves to
// Reviewing (or Failed). The estimator is never called for a known name.
func (s *Session) Submit(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return model.ErrValidationRejected
	}

	s.mu.Lock()
	if s.state != StateIdle && s.state != StateSearching {
		s.mu.Unlock()
		return fmt.Errorf("cannot submit in state %s", s.state)
	}
	s.input = name
	gen := s.generation
	s.mu.Unlock()

	food, err := s.wf.catalog.FindByName(ctx, name)

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return ErrSessionCancelled
	}

	if err == nil {
		s.food = food
		s.state = StateKnownFood
		s.mu.Unlock()
		return nil
	}

	if err != model.ErrFoodNotFound {
		s.state = StateFailed
		s.lastErr = model.ErrPersistenceFailed
		s.mu.Unlock()
		return model.ErrPersistenceFailed
	}

	s.state = StateUnknownFood
	s.mu.Unlock()

	return s.estimateLocked(ctx)
}

// Retry re-enters estimation with the same input after a failure.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateFailed || s.input == "" {
		s.mu.Unlock()
		return fmt.Errorf("cannot retry in state %s", s.state)
	}
	s.state = StateUnknownFood
	s.lastErr = nil
	s.mu.Unlock()

	return s.estimateLocked(ctx)
}

// estimateLocked runs the estimator for the submitted input. Expects the
// session to be in StateUnknownFood; the network call itself runs without
// the mutex held.
func (s *Session) estimateLocked(ctx context.Context) error {
	s.mu.Lock()
	if !canTransition(s.state, StateEstimating) {
		s.mu.Unlock()
		return fmt.Errorf("cannot estimate in state %s", s.state)
	}
	s.state = StateEstimating
	gen := s.generation
	input := s.input
	s.mu.Unlock()

	estimate, err := s.wf.estimator.Estimate(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		// Cancelled while the call was in flight; drop the late response.
		return ErrSessionCancelled
	}

	if err != nil {
		s.state = StateFailed
		s.lastErr = model.ErrEstimationFailed
		return model.ErrEstimationFailed
	}

	s.estimate = estimate
	s.state = StateReviewing

	return nil
}

// UpdateEstimate applies user overrides to the estimate under review.
// Numeric fields accept non-negative integers or decimals only (empty means
// zero); anything else is rejected without changing the session.
func (s *Session) UpdateEstimate(overrides map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReviewing || s.estimate == nil {
		return fmt.Errorf("cannot edit estimate in state %s", s.state)
	}

	updated := *s.estimate
	for field, value := range overrides {
		switch field {
		case "name":
			if value == "" {
				return model.ErrValidationRejected
			}
			updated.FoodName = value
		case "unit":
			updated.Unit = value
		case "protein":
			parsed, err := ParseNumericInput(value)
			if err != nil {
				return err
			}
			updated.ProteinG = parsed
		case "carbs":
			parsed, err := ParseNumericInput(value)
			if err != nil {
				return err
			}
			updated.CarbsG = parsed
		case "fat":
			parsed, err := ParseNumericInput(value)
			if err != nil {
				return err
			}
			updated.FatG = parsed
		case "calories":
			parsed, err := ParseNumericInput(value)
			if err != nil {
				return err
			}
			updated.Calories = parsed
		case "servingSize":
			parsed, err := ParseNumericInput(value)
			if err != nil {
				return err
			}
			updated.ServingSize = parsed
		default:
			return model.ErrValidationRejected
		}
	}

	s.estimate = &updated

	return nil
}

// Cancel discards the session's form state and returns it to Idle. An
// already-dispatched network call is not interrupted; its response will be
// ignored when it lands.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.state = StateIdle
	s.input = ""
	s.food = nil
	s.estimate = nil
	s.result = nil
	s.lastErr = nil
}

// Confirm commits the resolution: the food is created in the catalogue if
// needed (converging on the existing record when a concurrent resolution
// won the create race), the daily log entry is written, usage is tracked,
// and the cached log for that date is invalidated.
func (s *Session) Confirm(ctx context.Context, date time.Time, mealType model.MealType, servingSize float64) error {
	s.mu.Lock()
	if s.state != StateKnownFood && s.state != StateReviewing &&
		!(s.state == StateFailed && s.lastErr == model.ErrPersistenceFailed) {
		s.mu.Unlock()
		return fmt.Errorf("cannot commit in state %s", s.state)
	}

	if !mealType.Valid() {
		s.mu.Unlock()
		return model.ErrValidationRejected
	}
	if servingSize <= 0 {
		servingSize = 1
	}

	s.state = StateCommitting
	gen := s.generation
	food := s.food
	estimate := s.estimate
	s.mu.Unlock()

	resolved, err := s.resolveFood(ctx, food, estimate)
	var entry *model.DailyLogEntry
	if err == nil {
		entry = &model.DailyLogEntry{
			ID:          uuid.New(),
			Date:        date,
			FoodID:      resolved.ID,
			ServingSize: servingSize,
			MealType:    mealType,
			CreatedAt:   time.Now(),
		}
		err = s.wf.logRepo.Create(ctx, entry)
	}

	if err == nil {
		// A failed usage update must not fail a committed log entry.
		if trackErr := s.wf.tracker.Track(ctx, resolved.ID, servingSize); trackErr != nil {
			s.wf.logger.Warn().Err(trackErr).
				Int64("food_id", resolved.ID).
				Msg("usage tracking failed after commit")
		}

		// The commit changed both cached query results: the day's log
		// gained an entry and the usage update reshuffles the ranking.
		s.wf.cache.Invalidate(ctx, cache.KeyDailyLog(date))
		s.wf.cache.Invalidate(ctx, cache.KeyFrequentFoods)

		s.wf.logger.Info().
			Int64("food_id", resolved.ID).
			Str("meal_type", string(mealType)).
			Msg("food resolved and logged")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return ErrSessionCancelled
	}

	if err != nil {
		s.state = StateFailed
		s.lastErr = model.ErrPersistenceFailed
		return model.ErrPersistenceFailed
	}

	s.state = StateDone
	s.result = &CommitResult{Food: *resolved, Entry: *entry}
	s.input = ""
	s.food = nil
	s.estimate = nil

	return nil
}

// resolveFood returns the catalogue record to log against: the known food
// when one was matched, otherwise a record created from the reviewed
// estimate. Losing the create race to a concurrent resolution of the same
// name converges on the winner's record instead of failing.
func (s *Session) resolveFood(ctx context.Context, food *model.FoodRecord, estimate *model.NutritionEstimate) (*model.FoodRecord, error) {
	if food != nil {
		return food, nil
	}

	if estimate == nil {
		return nil, fmt.Errorf("no food or estimate to commit")
	}

	created, err := s.wf.catalog.Create(ctx, model.FoodInput{
		Name:        estimate.FoodName,
		ProteinG:    estimate.ProteinG,
		CarbsG:      estimate.CarbsG,
		FatG:        estimate.FatG,
		Calories:    estimate.Calories,
		ServingSize: estimate.ServingSize,
		Unit:        estimate.Unit,
	})
	if err == nil {
		return created, nil
	}

	if err == model.ErrDuplicateFoodName {
		s.wf.logger.Debug().
			Str("name", estimate.FoodName).
			Msg("lost create race, converging on existing food")
		return s.wf.catalog.FindByName(ctx, estimate.FoodName)
	}

	return nil, err
}
