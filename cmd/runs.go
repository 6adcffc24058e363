package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/staffx/internal/formatter"
	"github.com/desertthunder/staffx/internal/models"
	"github.com/desertthunder/staffx/internal/repositories"
	"github.com/desertthunder/staffx/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) openRuns(cmd *cli.Command) (*repositories.RunRepository, *sql.DB, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	db, err := shared.OpenLedger(config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open run ledger: %w", err)
	}
	return repositories.NewRunRepository(db), db, nil
}

// RunsList prints recorded runs, newest first.
func (r *Runner) RunsList(ctx context.Context, cmd *cli.Command) error {
	repo, db, err := r.openRuns(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	status := cmd.String("status")
	switch status {
	case "", models.RunRunning, models.RunSucceeded, models.RunFailed:
	default:
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidArgument, status)
	}

	runs, err := repo.List(map[string]any{
		"status":     status,
		"error_kind": cmd.String("kind"),
		"limit":      cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	r.writePlainHeader("Pipeline Runs")
	r.writePlain("%s\n", formatter.RenderRuns(runs))
	return nil
}

// RunsShow prints a single run selected by --id or --seq.
func (r *Runner) RunsShow(ctx context.Context, cmd *cli.Command) error {
	id, seq := cmd.String("id"), cmd.Int("seq")
	if id == "" && seq == 0 {
		return fmt.Errorf("%w: either --id or --seq must be provided", shared.ErrMissingArgument)
	}
	if id != "" && seq != 0 {
		return fmt.Errorf("%w: cannot specify both --id and --seq", shared.ErrInvalidArgument)
	}

	repo, db, err := r.openRuns(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	var run *models.Run
	if id != "" {
		run, err = repo.Get(id)
	} else {
		run, err = repo.GetBySequence(seq)
	}
	if err != nil {
		return err
	}

	r.writePlain("%s\n", formatter.RenderRun(run))
	return nil
}

// RunsDelete soft-deletes a run.
func (r *Runner) RunsDelete(ctx context.Context, cmd *cli.Command) error {
	repo, db, err := r.openRuns(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	id := cmd.String("id")
	if err := repo.Delete(id); err != nil {
		return err
	}

	r.logger.Info("run deleted", "id", id)
	r.writePlain("✓ Deleted run %s\n", id)
	return nil
}
