// Package resolution orchestrates mapping a user-typed food description to
// a persisted catalogue record and daily log entry: local lookup first,
// model estimation on a miss, user review, then commit.
package resolution

import (
	"context"
	"errors"

	"macrolog/internal/catalog"
	"macrolog/internal/estimation"
	"macrolog/internal/model"
	"macrolog/internal/repository"
	"macrolog/internal/usage"

	"github.com/rs/zerolog"
)

// ErrSessionCancelled reports that a session was cancelled while a network
// call was in flight; the late response has been discarded.
var ErrSessionCancelled = errors.New("resolution session cancelled")

// Invalidator drops a cached query result after a commit changes the data
// underneath it.
type Invalidator interface {
	Invalidate(ctx context.Context, key string)
}

// Workflow holds the collaborators shared by all resolution sessions. All
// dependencies are injected; nothing here is a process-wide singleton.
type Workflow struct {
	catalog   catalog.Service
	estimator estimation.Estimator
	logRepo   repository.LogRepository
	tracker   usage.Tracker
	cache     Invalidator
	logger    zerolog.Logger
}

// NewWorkflow creates the resolution workflow.
func NewWorkflow(
	cat catalog.Service,
	estimator estimation.Estimator,
	logRepo repository.LogRepository,
	tracker usage.Tracker,
	cache Invalidator,
	logger zerolog.Logger,
) *Workflow {
	return &Workflow{
		catalog:   cat,
		estimator: estimator,
		logRepo:   logRepo,
		tracker:   tracker,
		cache:     cache,
		logger:    logger.With().Str("service", "resolution").Logger(),
	}
}

// Begin starts an independent resolution session. Sessions may run
// concurrently; each one's steps are strictly sequential.
func (w *Workflow) Begin() *Session {
	return &Session{
		wf:    w,
		state: StateIdle,
	}
}

// BeginReviewed starts a session already holding a user-reviewed estimate,
// for clients that ran the estimation round-trip themselves and submit the
// reviewed values for commit.
func (w *Workflow) BeginReviewed(estimate model.NutritionEstimate) *Session {
	return &Session{
		wf:       w,
		state:    StateReviewing,
		input:    estimate.FoodName,
		estimate: &estimate,
	}
}
