package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/staffx/internal/shared"
)

// Run statuses
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// Run is one recorded pipeline execution.
type Run struct {
	id            string
	sequence      int
	status        string
	errorKind     string
	errorMessage  string
	joinedRows    int
	syntheticRows int
	finalRows     int
	outputPath    string
	createdAt     time.Time
	updatedAt     time.Time
	finishedAt    *time.Time
	deletedAt     *time.Time
}

// NewRun creates a [Run] in the running state.
func NewRun(sequence int) *Run {
	now := time.Now()
	return &Run{
		sequence:  sequence,
		status:    RunRunning,
		createdAt: now,
		updatedAt: now,
	}
}

func (r *Run) ID() string             { return r.id }
func (r *Run) Sequence() int          { return r.sequence }
func (r *Run) Status() string         { return r.status }
func (r *Run) ErrorKind() string      { return r.errorKind }
func (r *Run) ErrorMessage() string   { return r.errorMessage }
func (r *Run) JoinedRows() int        { return r.joinedRows }
func (r *Run) SyntheticRows() int     { return r.syntheticRows }
func (r *Run) FinalRows() int         { return r.finalRows }
func (r *Run) OutputPath() string     { return r.outputPath }
func (r *Run) CreatedAt() time.Time   { return r.createdAt }
func (r *Run) UpdatedAt() time.Time   { return r.updatedAt }
func (r *Run) FinishedAt() *time.Time { return r.finishedAt }
func (r *Run) DeletedAt() *time.Time  { return r.deletedAt }

func (r *Run) SetID(id string)            { r.id = id }
func (r *Run) SetSequence(sequence int)   { r.sequence = sequence }
func (r *Run) SetStatus(status string)    { r.status = status }
func (r *Run) SetErrorKind(kind string)   { r.errorKind = kind }
func (r *Run) SetErrorMessage(msg string) { r.errorMessage = msg }
func (r *Run) SetJoinedRows(n int)        { r.joinedRows = n }
func (r *Run) SetSyntheticRows(n int)     { r.syntheticRows = n }
func (r *Run) SetFinalRows(n int)         { r.finalRows = n }
func (r *Run) SetOutputPath(path string)  { r.outputPath = path }
func (r *Run) SetCreatedAt(t time.Time)   { r.createdAt = t }
func (r *Run) SetUpdatedAt(t time.Time)   { r.updatedAt = t }
func (r *Run) SetFinishedAt(t *time.Time) { r.finishedAt = t }
func (r *Run) SetDeletedAt(t *time.Time)  { r.deletedAt = t }
func (r *Run) IsDeleted() bool            { return r.deletedAt != nil }
func (r *Run) IsFinished() bool           { return r.status != RunRunning }

// SetCounts records the row counts of a run.
func (r *Run) SetCounts(joined, synthetic, final int) {
	r.joinedRows = joined
	r.syntheticRows = synthetic
	r.finalRows = final
}

// Succeed marks the run as succeeded with its output path.
func (r *Run) Succeed(outputPath string) {
	now := time.Now()
	r.status = RunSucceeded
	r.outputPath = outputPath
	r.finishedAt = &now
}

// Fail marks the run as failed, storing the error's kind and message.
func (r *Run) Fail(err error) {
	now := time.Now()
	r.status = RunFailed
	r.errorKind = shared.ErrorKind(err)
	if err != nil {
		r.errorMessage = err.Error()
	}
	r.finishedAt = &now
}

// Duration returns how long the run took, or zero while it is still running.
func (r *Run) Duration() time.Duration {
	if r.finishedAt == nil {
		return 0
	}
	return r.finishedAt.Sub(r.createdAt)
}

// Validate checks the run's status and counts.
func (r *Run) Validate() error {
	switch r.status {
	case RunRunning, RunSucceeded, RunFailed:
	default:
		return fmt.Errorf("%w: unknown run status %q", shared.ErrInvalidInput, r.status)
	}
	if r.sequence < 0 {
		return fmt.Errorf("%w: sequence must be non-negative", shared.ErrInvalidInput)
	}
	if r.joinedRows < 0 || r.syntheticRows < 0 || r.finalRows < 0 {
		return fmt.Errorf("%w: row counts must be non-negative", shared.ErrInvalidInput)
	}
	if r.status == RunFailed && r.errorKind == "" {
		return fmt.Errorf("%w: failed run requires an error kind", shared.ErrInvalidInput)
	}
	return nil
}

var _ Model = (*Run)(nil)
