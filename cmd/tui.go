package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/staffx/internal/services"
	"github.com/desertthunder/staffx/internal/shared"
	"github.com/desertthunder/staffx/internal/tasks"
	"github.com/desertthunder/staffx/internal/ui"
)

const tuiLogPath = "./tmp/staffx-tui.log"

// runTUI runs the pipeline behind the interactive progress display.
func (r *Runner) runTUI(ctx context.Context, source services.Source, opts tasks.PipelineOpts) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(tuiLogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	opts.Logger = fileLogger

	model := ui.NewModel(ctx, tasks.NewPipeline(source, opts))
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	result, err := model.Result()
	if err != nil {
		return err
	}
	if result != nil {
		r.writePlain("Processed dataset saved as '%s'\n", result.OutputPath)
	}
	return nil
}
