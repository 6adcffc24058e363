package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/staffx/internal/dataset"
	"github.com/desertthunder/staffx/internal/formatter"
	"github.com/desertthunder/staffx/internal/shared"
	"github.com/desertthunder/staffx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunView ViewState = iota
	ResultView
)

// PipelineRunner runs the pipeline and reports progress on the channel.
type PipelineRunner interface {
	Run(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.PipelineResult, error)
}

const (
	defaultWidth  = 80
	summaryHeight = 14
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	view         ViewState
	pipeline     PipelineRunner
	width        int
	spinner      spinner.Model
	bar          progress.Model
	summaryView  viewport.Model
	run          *runHandle
	progress     tasks.ProgressUpdate
	summary      *dataset.Summary
	result       *tasks.PipelineResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model running pipeline under ctx.
func NewModel(ctx context.Context, pipeline PipelineRunner) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.spinner

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = defaultWidth - 4

	return &Model{
		ctx:         ctx,
		view:        RunView,
		pipeline:    pipeline,
		width:       defaultWidth,
		spinner:     sp,
		bar:         bar,
		summaryView: viewport.New(defaultWidth, summaryHeight),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Result returns the outcome of the last completed run.
func (m *Model) Result() (*tasks.PipelineResult, error) { return m.result, m.err }

// Init starts the spinner and the first run.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(msg.Width-4, 10)
		m.summaryView.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if m.view != RunView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			if s, ok := m.progress.Data.(dataset.Summary); ok {
				m.summary = &s
			}
			return m, m.waitForProgress()

		case MsgRunComplete:
			outcome := msg.data.(runOutcome)
			m.result = outcome.result
			m.err = outcome.err
			m.view = ResultView
			m.run = nil
			if m.summary != nil {
				m.summaryView.SetContent(formatter.RenderSummary(*m.summary))
				m.summaryView.GotoTop()
			}
			return m, nil
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		if m.cancel != nil {
			m.cancel()
		}
		if m.view == RunView {
			m.awaitRun()
		}
		return m, tea.Quit
	}

	if m.view != ResultView {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.restart):
		m.view = RunView
		m.progress = tasks.ProgressUpdate{}
		m.summary = nil
		m.result = nil
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.startRun())
	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		var cmd tea.Cmd
		m.summaryView, cmd = m.summaryView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) startRun() tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel

	run := &runHandle{
		progress: make(chan tasks.ProgressUpdate, 50),
		done:     make(chan struct{}),
	}
	m.run = run

	go func() {
		result, err := m.pipeline.Run(ctx, run.progress)
		run.outcome = runOutcome{result: result, err: err}
		close(run.done)
		close(run.progress)
	}()

	return m.waitForProgress()
}

// awaitRun blocks until the active run returns and records its outcome. A run that was never started, or that
// finished without a result, is reported as cancelled.
func (m *Model) awaitRun() {
	if m.run == nil {
		if m.result == nil && m.err == nil {
			m.err = context.Canceled
		}
		return
	}

	<-m.run.done
	m.result, m.err = m.run.outcome.result, m.run.outcome.err
	if m.result == nil && m.err == nil {
		m.err = context.Canceled
	}
	m.run = nil
}

func (m *Model) waitForProgress() tea.Cmd {
	run := m.run
	return func() tea.Msg {
		if run == nil {
			return runCompleteMsg(m.result, m.err)
		}

		update, ok := <-run.progress
		if !ok {
			return runCompleteMsg(run.outcome.result, run.outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Processing employees & users")

	message := m.progress.Message
	if message == "" {
		message = "Starting..."
	}

	percent := 0.0
	if m.progress.Total > 0 {
		percent = float64(m.progress.Step) / float64(m.progress.Total)
	}
	step := fmt.Sprintf("Step %d/%d", m.progress.Step, m.progress.Total)
	if m.progress.Total == 0 {
		step = ""
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n%s %s\n\n%s\n%s\n\n%s",
		title, m.spinner.View(), message, m.bar.ViewAs(percent), styles.help.Render(step), helpView)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.restart, m.keys.quit})

	if m.err != nil {
		kind := shared.ErrorKind(m.err)
		failed := styles.error.Render(fmt.Sprintf("✗ Pipeline failed (%s)", kind))
		return fmt.Sprintf("%s\n\n%v\n\n%s", failed, m.err, helpView)
	}

	if m.result == nil {
		return styles.error.Render("No result available") + "\n\n" + helpView
	}

	var b strings.Builder
	b.WriteString(styles.success.Render("✓ Pipeline Complete"))
	b.WriteString("\n\n")

	lines := [][2]string{
		{"Users", fmt.Sprintf("%s payload", m.result.UsersShape)},
		{"Employees", fmt.Sprintf("%s payload", m.result.EmployeesShape)},
		{"Joined rows", fmt.Sprint(m.result.JoinedRows)},
		{"Filled cells", fmt.Sprint(m.result.FilledCells)},
		{"Invalid dates", fmt.Sprint(m.result.InvalidDates)},
		{"Synthetic rows", fmt.Sprint(m.result.SyntheticRows)},
		{"Shape", fmt.Sprintf("(%d, %d)", m.result.FinalRows, len(m.result.Columns))},
		{"Output", m.result.OutputPath},
		{"Seed", fmt.Sprint(m.result.Seed)},
		{"Elapsed", m.result.Elapsed.Round(time.Millisecond).String()},
	}
	if m.result.RunID != "" {
		lines = append(lines, [2]string{"Run", m.result.RunID})
	}
	for _, l := range lines {
		fmt.Fprintf(&b, "%s%s\n", styles.label.Render(l[0]), l[1])
	}

	if m.result.InvalidDates > 0 {
		b.WriteString("\n")
		b.WriteString(styles.warning.Render(fmt.Sprintf("%d hire dates could not be parsed", m.result.InvalidDates)))
		b.WriteString("\n")
	}

	if m.summary != nil {
		b.WriteString("\n")
		b.WriteString(m.summaryView.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpView)
	return b.String()
}
