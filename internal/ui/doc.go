// Package ui implements a terminal progress display for pipeline runs using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [RunView] : Spinner, current phase and a step progress bar while the pipeline runs
//  2. [ResultView] : Counts, output path and a scrollable dataset description, or the failure and its kind
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the pipeline, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
