package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/staffx/internal/models"
	"github.com/desertthunder/staffx/internal/shared"
)

const runColumns = `
	id, sequence, status, error_kind, error_message, joined_rows,
	synthetic_rows, final_rows, output_path, created_at, updated_at,
	finished_at, deleted_at
`

// RunRepository implements models.Repository[*models.Run] for the pipeline run ledger.
//
// Handles run CRUD operations with soft delete support and status-based queries.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence.
//
// The sequence is taken in the same transaction as the insert, so a rejected run does not leave a gap.
func (r *RunRepository) Create(run *models.Run) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(tx, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (
			id, sequence, status, error_kind, error_message, joined_rows,
			synthetic_rows, final_rows, output_path, created_at, updated_at,
			finished_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		run.ID(),
		run.Sequence(),
		run.Status(),
		run.ErrorKind(),
		run.ErrorMessage(),
		run.JoinedRows(),
		run.SyntheticRows(),
		run.FinalRows(),
		run.OutputPath(),
		run.CreatedAt(),
		run.UpdatedAt(),
		run.FinishedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return tx.Commit()
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, id))
}

// GetBySequence retrieves a run by its sequence number, excluding soft-deleted runs
func (r *RunRepository) GetBySequence(sequence int) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE sequence = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, sequence))
}

// Update modifies an existing run in the database
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET status = ?, error_kind = ?, error_message = ?, joined_rows = ?,
			synthetic_rows = ?, final_rows = ?, output_path = ?, finished_at = ?,
			updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.Status(),
		run.ErrorKind(),
		run.ErrorMessage(),
		run.JoinedRows(),
		run.SyntheticRows(),
		run.FinalRows(),
		run.OutputPath(),
		run.FinishedAt(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, run.ID())
	}

	return nil
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	query := `
		UPDATE runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}

	return nil
}

// List retrieves runs matching the given criteria, newest first, excluding soft-deleted runs.
//
// Supported criteria: "status" (string), "error_kind" (string), "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE deleted_at IS NULL`
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if kind, ok := criteria["error_kind"].(string); ok && kind != "" {
		query += " AND error_kind = ?"
		args = append(args, kind)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// StartRun records a new run in the running state.
func (r *RunRepository) StartRun() (*models.Run, error) {
	run := models.NewRun(0)
	if err := r.Create(run); err != nil {
		return nil, err
	}
	return run, nil
}

// FinishRun persists the final state of run.
func (r *RunRepository) FinishRun(run *models.Run) error {
	return r.Update(run)
}

type scanner interface {
	Scan(dest ...any) error
}

// scan reads one row from a [sql.Row] or [sql.Rows] into a [models.Run]
func (r *RunRepository) scan(row scanner) (*models.Run, error) {
	var (
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
		finishedAt    sql.NullTime
		deletedAt     sql.NullTime
	)

	err := row.Scan(
		&id, &sequence, &status, &errorKind, &errorMessage, &joinedRows,
		&syntheticRows, &finalRows, &outputPath, &createdAt, &updatedAt,
		&finishedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run := models.NewRun(sequence)
	run.SetID(id)
	run.SetStatus(status)
	run.SetErrorKind(errorKind)
	run.SetErrorMessage(errorMessage)
	run.SetCounts(joinedRows, syntheticRows, finalRows)
	run.SetOutputPath(outputPath)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if finishedAt.Valid {
		run.SetFinishedAt(&finishedAt.Time)
	}
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}

var _ models.Repository[*models.Run] = (*RunRepository)(nil)
