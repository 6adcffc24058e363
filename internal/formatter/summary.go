package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/staffx/internal/dataset"
	"github.com/desertthunder/staffx/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	failedStyle = cellStyle.Foreground(lipgloss.Color("#FF0000"))
	okStyle     = cellStyle.Foreground(lipgloss.Color("#04B575"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// RenderSummary draws the dataset description printed before cleaning.
func RenderSummary(s dataset.Summary) string {
	rows := make([][]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		row := []string{f.Name, f.Kind, strconv.Itoa(f.Count), strconv.Itoa(f.Nulls), "", "", "", "", "", "", ""}
		if f.Numeric() {
			row[7], row[8], row[9], row[10] = stat(f.Mean), stat(f.Std), stat(f.Min), stat(f.Max)
		} else if f.Count > 0 {
			row[4], row[5], row[6] = strconv.Itoa(f.Unique), truncate(f.Top, 24), strconv.Itoa(f.Freq)
		}
		rows = append(rows, row)
	}

	t := newTable("Column", "Dtype", "Non-Null", "Missing", "Unique", "Top", "Freq", "Mean", "Std", "Min", "Max").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 && rows[row][3] != "0" {
				return failedStyle
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString("Dataset Description:\n")
	b.WriteString(t.String())
	b.WriteString(fmt.Sprintf("\nShape: (%d, %d)\n", s.Rows, s.Columns))
	return b.String()
}

// RenderRuns draws the run ledger as a table, newest first.
func RenderRuns(runs []*models.Run) string {
	if len(runs) == 0 {
		return "No runs recorded.\n"
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			strconv.Itoa(r.Sequence()),
			shortID(r.ID()),
			r.Status(),
			r.ErrorKind(),
			strconv.Itoa(r.JoinedRows()),
			strconv.Itoa(r.SyntheticRows()),
			strconv.Itoa(r.FinalRows()),
			r.CreatedAt().Local().Format(time.DateTime),
			formatDuration(r.Duration()),
		})
	}

	t := newTable("#", "ID", "Status", "Error", "Joined", "Synthetic", "Final", "Started", "Took").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 {
				switch runs[row].Status() {
				case models.RunFailed:
					return failedStyle
				case models.RunSucceeded:
					return okStyle
				}
			}
			return cellStyle
		})
	return t.String() + "\n"
}

// RenderRun prints every recorded field of one run.
func RenderRun(r *models.Run) string {
	var b strings.Builder
	field := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "%-16s %s\n", k+":", v)
		}
	}

	field("ID", r.ID())
	field("Sequence", strconv.Itoa(r.Sequence()))
	field("Status", r.Status())
	field("Error kind", r.ErrorKind())
	field("Error", r.ErrorMessage())
	field("Joined rows", strconv.Itoa(r.JoinedRows()))
	field("Synthetic rows", strconv.Itoa(r.SyntheticRows()))
	field("Final rows", strconv.Itoa(r.FinalRows()))
	field("Output", r.OutputPath())
	field("Started", r.CreatedAt().Local().Format(time.RFC3339))
	if r.FinishedAt() != nil {
		field("Finished", r.FinishedAt().Local().Format(time.RFC3339))
		field("Took", formatDuration(r.Duration()))
	}
	return b.String()
}

func stat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.Round(time.Millisecond).String()
}
