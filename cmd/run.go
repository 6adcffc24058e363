package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/staffx/internal/dataset"
	"github.com/desertthunder/staffx/internal/formatter"
	"github.com/desertthunder/staffx/internal/repositories"
	"github.com/desertthunder/staffx/internal/services"
	"github.com/desertthunder/staffx/internal/shared"
	"github.com/desertthunder/staffx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Run executes the pipeline with progress printed to the console, or in the TUI with --tui.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	loaded, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	config := *loaded
	if err := applyRunFlags(&config, cmd); err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	clock, err := config.Clock()
	if err != nil {
		return err
	}

	opts := tasks.PipelineOpts{
		UsersPath:     config.Source.UsersPath,
		EmployeesPath: config.Source.EmployeesPath,
		UsersKey:      config.Source.UsersKey,
		EmployeesKey:  config.Source.EmployeesKey,
		JoinKey:       config.Pipeline.JoinKey,
		TargetRows:    config.Pipeline.TargetRows,
		OutputPath:    config.Output.Path,
		Seed:          config.Pipeline.Seed,
		Now:           clock,
		Logger:        r.logger,
	}

	if config.Database.RecordRuns && !cmd.Bool("no-ledger") {
		db, err := shared.OpenLedger(config.Database)
		if err != nil {
			r.logger.Warn("run ledger unavailable, continuing without it", "path", config.Database.Path, "error", err)
		} else {
			defer db.Close()
			opts.Recorder = repositories.NewRunRepository(db)
		}
	}

	source := r.newSource(&config)
	r.logger.Info("starting pipeline", "source", source.BaseURL(), "target_rows", opts.TargetRows, "output", opts.OutputPath)

	if cmd.Bool("tui") {
		return r.runTUI(ctx, source, opts)
	}
	return r.runPlain(ctx, tasks.NewPipeline(source, opts))
}

// applyRunFlags overrides config values with explicitly set flags.
func applyRunFlags(config *shared.Config, cmd *cli.Command) error {
	if cmd.IsSet("output") {
		config.Output.Path = cmd.String("output")
	}
	if cmd.IsSet("rows") {
		rows := cmd.Int("rows")
		if rows < 0 {
			return fmt.Errorf("%w: --rows must not be negative, got %d", shared.ErrInvalidArgument, rows)
		}
		config.Pipeline.TargetRows = rows
	}
	if cmd.IsSet("seed") {
		config.Pipeline.Seed = cmd.Uint64("seed")
	}
	if cmd.IsSet("now") {
		config.Pipeline.Now = cmd.String("now")
	}
	if cmd.IsSet("base-url") {
		config.Source.BaseURL = cmd.String("base-url")
	}
	return nil
}

func (r *Runner) runPlain(ctx context.Context, pipeline *tasks.Pipeline) error {
	progress := make(chan tasks.ProgressUpdate, 32)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.printProgress(update)
		}
	}()

	result, err := pipeline.Run(ctx, progress)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("Processed dataset saved as '%s'", result.OutputPath)
	r.writePlain("Final dataset shape: (%d, %d)\n", result.FinalRows, len(result.Columns))
	if result.RunID != "" {
		r.writePlain("Run: %s\n", result.RunID)
	}
	return nil
}

func (r *Runner) printProgress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.DescribeTable:
		if summary, ok := update.Data.(dataset.Summary); ok {
			r.writePlain("\n%s\n\n", formatter.RenderSummary(summary))
			return
		}
	case tasks.Synthesize:
		r.writePlain("%s\n", update.Message)
		return
	case tasks.Done:
		return
	}
	r.writePlain("→ [%d/%d] %s\n", update.Step, update.Total, update.Message)
}

var (
	_ tasks.RunRecorder = (*repositories.RunRepository)(nil)
	_ services.Source   = (*services.APIService)(nil)
)
