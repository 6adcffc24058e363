package tasks

import (
	"fmt"

	"github.com/desertthunder/staffx/internal/dataset"
)

// ProgressUpdate represents a progress event during a pipeline run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number within the run
	Total   int    // Total steps in the run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Pipeline phase enumeration
type Phase int

const (
	FetchUsers Phase = iota
	FetchEmployees
	ShapeTables
	JoinTables
	DescribeTable
	CleanTable
	Synthesize
	EngineerFeatures
	WriteOutput
	Done
)

// totalSteps is the number of phases before [Done].
const totalSteps = int(Done)

func (p Phase) String() string {
	switch p {
	case FetchUsers:
		return "fetch_users"
	case FetchEmployees:
		return "fetch_employees"
	case ShapeTables:
		return "shape"
	case JoinTables:
		return "join"
	case DescribeTable:
		return "describe"
	case CleanTable:
		return "clean"
	case Synthesize:
		return "synthesize"
	case EngineerFeatures:
		return "features"
	case WriteOutput:
		return "write"
	case Done:
		return "done"
	default:
		return ""
	}
}

func phaseUpdate(p Phase, message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   p,
		Step:    int(p) + 1,
		Total:   totalSteps,
		Message: message,
	}
}

func fetchUpdate(p Phase, path string) ProgressUpdate {
	return phaseUpdate(p, fmt.Sprintf("Fetching %s...", path))
}

func joinedUpdate(rows, columns int) ProgressUpdate {
	return phaseUpdate(JoinTables, fmt.Sprintf("Joined %d rows x %d columns", rows, columns))
}

func describedUpdate(s dataset.Summary) ProgressUpdate {
	u := phaseUpdate(DescribeTable, fmt.Sprintf("Described %d columns", s.Columns))
	u.Data = s
	return u
}

func cleanedUpdate(filled, invalid int) ProgressUpdate {
	return phaseUpdate(CleanTable, fmt.Sprintf("Filled %d missing cells, %d unparseable dates", filled, invalid))
}

func synthesizeUpdate(n int) ProgressUpdate {
	return phaseUpdate(Synthesize, fmt.Sprintf("Generating %d synthetic records...", n))
}

func featuresUpdate() ProgressUpdate {
	return phaseUpdate(EngineerFeatures, "Adding engineered features...")
}

func writeUpdate(path string) ProgressUpdate {
	return phaseUpdate(WriteOutput, fmt.Sprintf("Writing %s...", path))
}

func doneUpdate(res *PipelineResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    totalSteps,
		Total:   totalSteps,
		Message: fmt.Sprintf("Processed dataset saved as '%s'", res.OutputPath),
		Data:    res,
	}
}
