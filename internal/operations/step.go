// Package operations sequences the pipeline: extraction, transformation,
// load. Steps run strictly one after another; a fatal step failure halts the
// remaining steps and the run ends with a non-zero status.
package operations

import (
	"context"
	"time"
)

// Step is a single pipeline stage.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() string

	// Name returns the human-readable name for this step.
	Name() string

	// Run executes the step, reading its input from and writing its output
	// to the shared run state.
	Run(ctx context.Context, state *State) error
}

// StepStatus represents the current status of a step.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState is the runtime state of a step. The pipeline is single-threaded,
// so no locking is needed.
type StepState struct {
	ID        string
	Name      string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Err       error
}

// NewStepState creates a pending step state.
func NewStepState(id, name string) *StepState {
	return &StepState{ID: id, Name: name, Status: StepStatusPending}
}

// Start marks the step active.
func (s *StepState) Start() {
	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step completed.
func (s *StepState) Complete() {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the step failed with the given error.
func (s *StepState) Fail(err error) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Err = err
}

// Skip marks the step skipped (an earlier step failed).
func (s *StepState) Skip() {
	s.Status = StepStatusSkipped
}

// Duration returns how long the step ran.
func (s *StepState) Duration() time.Duration {
	if s.StartTime == nil {
		return 0
	}
	if s.EndTime == nil {
		return time.Since(*s.StartTime)
	}
	return s.EndTime.Sub(*s.StartTime)
}
