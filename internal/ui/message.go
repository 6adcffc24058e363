package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/staffx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgRunComplete
)

type runOutcome struct {
	result *tasks.PipelineResult
	err    error
}

// runHandle tracks one background pipeline run. outcome is set before done is closed, and done is closed before
// progress.
type runHandle struct {
	progress chan tasks.ProgressUpdate
	done     chan struct{}
	outcome  runOutcome
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// runCompleteMsg is the constructor for [MsgRunComplete]
func runCompleteMsg(result *tasks.PipelineResult, err error) Msg {
	return Msg{kind: MsgRunComplete, data: runOutcome{result: result, err: err}}
}
