package tasks

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/staffx/internal/dataset"
	"github.com/desertthunder/staffx/internal/formatter"
	"github.com/desertthunder/staffx/internal/models"
	"github.com/desertthunder/staffx/internal/services"
	"github.com/desertthunder/staffx/internal/shared"
)

// RunRecorder persists the outcome of each pipeline run.
//
// Recording is best effort: errors are logged and never fail the run.
type RunRecorder interface {
	StartRun() (*models.Run, error)
	FinishRun(run *models.Run) error
}

// PipelineOpts configures a [Pipeline]. Empty strings and a nil clock fall back to [DefaultPipelineOpts].
type PipelineOpts struct {
	UsersPath     string           // Source path for users (default: /users/)
	EmployeesPath string           // Source path for employees (default: /employees/)
	UsersKey      string           // List key in a keyed users payload (default: users)
	EmployeesKey  string           // List key in a keyed employees payload (default: employees)
	JoinKey       string           // Column both tables are joined on (default: user_id)
	TargetRows    int              // Minimum final row count, used as given
	OutputPath    string           // CSV destination (default: processed_employees_users.csv)
	Seed          uint64           // Random seed; 0 derives one from the clock
	Now           func() time.Time // Clock (default: time.Now)
	NumWorkers    int              // Synthesizer workers (default: 4)
	Logger        *log.Logger      // Defaults to a stderr logger
	Recorder      RunRecorder      // Optional run ledger
}

// DefaultPipelineOpts returns the options used when a field is left empty.
func DefaultPipelineOpts() PipelineOpts {
	return PipelineOpts{
		UsersPath:     "/users/",
		EmployeesPath: "/employees/",
		UsersKey:      "users",
		EmployeesKey:  "employees",
		JoinKey:       "user_id",
		TargetRows:    500_000,
		OutputPath:    "processed_employees_users.csv",
		Now:           time.Now,
	}
}

// PipelineResult summarizes a completed run.
type PipelineResult struct {
	RunID          string          // Ledger ID, empty when no recorder is configured
	UsersShape     dataset.Shape   // Layout of the users payload
	EmployeesShape dataset.Shape   // Layout of the employees payload
	Summary        dataset.Summary // Description of the joined table before cleaning
	JoinedRows     int
	FilledCells    int
	InvalidDates   int
	SyntheticRows  int
	FinalRows      int
	Columns        []string
	OutputPath     string
	Seed           uint64
	Elapsed        time.Duration
	Table          *dataset.Table
}

// Pipeline fetches users and employees, joins and cleans them, pads the result with synthetic records, adds
// engineered features and writes the table as CSV.
type Pipeline struct {
	source services.Source
	opts   PipelineOpts
	logger *log.Logger
}

// NewPipeline creates a [Pipeline] reading from source.
//
// The seed drives both the synthesizer and the feature sampler. Every call to [Pipeline.Run] reseeds them, so
// repeated runs with the same seed and clock produce identical output for identical input.
func NewPipeline(source services.Source, opts PipelineOpts) *Pipeline {
	defaults := DefaultPipelineOpts()
	if opts.UsersPath == "" {
		opts.UsersPath = defaults.UsersPath
	}
	if opts.EmployeesPath == "" {
		opts.EmployeesPath = defaults.EmployeesPath
	}
	if opts.UsersKey == "" {
		opts.UsersKey = defaults.UsersKey
	}
	if opts.EmployeesKey == "" {
		opts.EmployeesKey = defaults.EmployeesKey
	}
	if opts.JoinKey == "" {
		opts.JoinKey = defaults.JoinKey
	}
	if opts.TargetRows < 0 {
		opts.TargetRows = 0
	}
	if opts.OutputPath == "" {
		opts.OutputPath = defaults.OutputPath
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(opts.Now().UnixNano())
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Pipeline{source: source, opts: opts, logger: opts.Logger}
}

// seeded builds the random stages from the pipeline seed.
func (p *Pipeline) seeded() (*Synthesizer, *FeatureEngineer) {
	rng := rand.New(rand.NewPCG(p.opts.Seed, p.opts.Seed>>1|1))
	synth := NewSynthesizer(SynthesizerOpts{
		Seed:       rng.Uint64(),
		Now:        p.opts.Now,
		NumWorkers: p.opts.NumWorkers,
	})
	features := NewFeatureEngineer(rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())), p.opts.Now)
	return synth, features
}

// Opts returns the resolved options.
func (p *Pipeline) Opts() PipelineOpts { return p.opts }

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (p *Pipeline) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run executes the pipeline. On failure nothing is written and the returned error wraps one of
// [shared.ErrNetwork], [shared.ErrDecode], [shared.ErrSchema] or [shared.ErrSerialize]. A run stopped by a
// cancelled ctx also wraps [context.Canceled].
//
// Failures are returned, not logged; the caller reports them.
func (p *Pipeline) Run(ctx context.Context, progress chan<- ProgressUpdate) (*PipelineResult, error) {
	started := time.Now()
	run := p.startRun()

	result, err := p.run(ctx, progress)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		p.logger.Debug("pipeline stopped", "kind", shared.ErrorKind(err))
		if run != nil {
			if result != nil {
				run.SetCounts(result.JoinedRows, result.SyntheticRows, result.FinalRows)
			}
			run.Fail(err)
			p.finishRun(run)
		}
		return nil, err
	}

	result.Elapsed = time.Since(started)
	if run != nil {
		result.RunID = run.ID()
		run.SetCounts(result.JoinedRows, result.SyntheticRows, result.FinalRows)
		run.Succeed(result.OutputPath)
		p.finishRun(run)
	}

	p.sendProgress(progress, doneUpdate(result))
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, progress chan<- ProgressUpdate) (*PipelineResult, error) {
	res := &PipelineResult{OutputPath: p.opts.OutputPath, Seed: p.opts.Seed}
	synth, features := p.seeded()

	p.sendProgress(progress, fetchUpdate(FetchUsers, p.opts.UsersPath))
	usersBody, err := p.source.FetchJSON(ctx, p.opts.UsersPath)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	p.logger.Info("fetched", "path", p.opts.UsersPath, "bytes", len(usersBody))

	p.sendProgress(progress, fetchUpdate(FetchEmployees, p.opts.EmployeesPath))
	employeesBody, err := p.source.FetchJSON(ctx, p.opts.EmployeesPath)
	if err != nil {
		return nil, fmt.Errorf("fetch employees: %w", err)
	}
	p.logger.Info("fetched", "path", p.opts.EmployeesPath, "bytes", len(employeesBody))

	p.sendProgress(progress, phaseUpdate(ShapeTables, "Shaping payloads..."))
	users, shape, err := shapeTable(usersBody, p.opts.UsersKey)
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	res.UsersShape = shape

	employees, shape, err := shapeTable(employeesBody, p.opts.EmployeesKey)
	if err != nil {
		return nil, fmt.Errorf("employees: %w", err)
	}
	res.EmployeesShape = shape
	p.logger.Info("shaped",
		"users", users.Len(), "users_shape", res.UsersShape,
		"employees", employees.Len(), "employees_shape", res.EmployeesShape)

	joined, err := dataset.InnerJoin(employees, users, dataset.On(p.opts.JoinKey))
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	res.JoinedRows = joined.Len()
	p.sendProgress(progress, joinedUpdate(joined.Len(), joined.Width()))
	p.logger.Info("joined", "phase", JoinTables, "rows", joined.Len(), "columns", joined.Width())

	res.Summary = dataset.Describe(joined)
	p.sendProgress(progress, describedUpdate(res.Summary))

	res.FilledCells = dataset.FillMissing(joined, dataset.DefaultFills)
	res.InvalidDates, err = dataset.CoerceDates(joined, "hire_date")
	if err != nil {
		return res, fmt.Errorf("clean: %w", err)
	}
	p.sendProgress(progress, cleanedUpdate(res.FilledCells, res.InvalidDates))
	p.logger.Info("cleaned", "phase", CleanTable, "filled", res.FilledCells, "invalid_dates", res.InvalidDates)

	if joined.Len() <= p.opts.TargetRows {
		n := p.opts.TargetRows - joined.Len()
		p.sendProgress(progress, synthesizeUpdate(n))
		p.logger.Infof("Generating %d synthetic records...", n)
	}
	padded, generated, err := synth.PadTo(ctx, joined, p.opts.TargetRows)
	if err != nil {
		return res, fmt.Errorf("synthesize: %w", err)
	}
	res.SyntheticRows = generated

	p.sendProgress(progress, featuresUpdate())
	if err := features.Apply(padded); err != nil {
		return res, fmt.Errorf("features: %w", err)
	}
	res.FinalRows = padded.Len()
	res.Columns = padded.Columns()
	res.Table = padded
	p.logger.Info("features added", "phase", EngineerFeatures, "rows", padded.Len(), "columns", padded.Width())

	p.sendProgress(progress, writeUpdate(p.opts.OutputPath))
	if err := formatter.WriteCSVFile(padded, p.opts.OutputPath); err != nil {
		return res, err
	}
	p.logger.Info("wrote output", "phase", WriteOutput, "path", p.opts.OutputPath, "rows", padded.Len())

	return res, nil
}

func shapeTable(body []byte, key string) (*dataset.Table, dataset.Shape, error) {
	payload, err := dataset.ParsePayload(body)
	if err != nil {
		return nil, 0, err
	}
	records, err := payload.Records(key)
	if err != nil {
		return nil, payload.Shape(), err
	}
	return dataset.FromRecords(records), payload.Shape(), nil
}

func (p *Pipeline) startRun() *models.Run {
	if p.opts.Recorder == nil {
		return nil
	}
	run, err := p.opts.Recorder.StartRun()
	if err != nil {
		p.logger.Warn("failed to record run start", "error", err)
		return nil
	}
	return run
}

func (p *Pipeline) finishRun(run *models.Run) {
	if err := p.opts.Recorder.FinishRun(run); err != nil {
		p.logger.Warn("failed to record run outcome", "run", run.ID(), "error", err)
	}
}
