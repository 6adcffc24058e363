package formatter

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/staffx/internal/dataset"
	"github.com/desertthunder/staffx/internal/shared"
	"golang.org/x/text/unicode/norm"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	dateTimeMicros = "2006-01-02 15:04:05.000000"
)

// WriteTableCSV writes t to w as comma-delimited CSV with a header row and no index column.
func WriteTableCSV(w io.Writer, t *dataset.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(normalizeAll(t.Columns())); err != nil {
		return fmt.Errorf("%w: failed to write CSV headers: %v", shared.ErrSerialize, err)
	}

	layouts := timeLayouts(t)
	record := make([]string, t.Width())
	for i := 0; i < t.Len(); i++ {
		for c, v := range t.Row(i) {
			record[c] = FormatValue(v, layouts[c])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("%w: failed to write CSV record %d: %v", shared.ErrSerialize, i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: CSV writer error: %v", shared.ErrSerialize, err)
	}
	return nil
}

// WriteCSVFile writes t to path, replacing any existing file.
//
// The table is written to a temporary file in the same directory and renamed into place, so a failed write leaves
// no partial output behind.
func WriteCSVFile(t *dataset.Table, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".staffx-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary file: %v", shared.ErrSerialize, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	buf := bufio.NewWriterSize(tmp, 1<<20)
	if err := WriteTableCSV(buf, t); err != nil {
		tmp.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to flush %s: %v", shared.ErrSerialize, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %v", shared.ErrSerialize, path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("%w: failed to set permissions: %v", shared.ErrSerialize, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: failed to move output into place: %v", shared.ErrSerialize, err)
	}
	return nil
}

// FormatValue renders one cell. Time values use layout.
func FormatValue(v any, layout string) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return norm.NFC.String(x)
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return FormatFloat(x)
	case float32:
		return FormatFloat(float64(x))
	case bool:
		if x {
			return "True"
		}
		return "False"
	case time.Time:
		if layout == "" {
			layout = dateTimeLayout
		}
		return x.UTC().Format(layout)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return norm.NFC.String(fmt.Sprint(x))
		}
		return norm.NFC.String(string(b))
	default:
		return norm.NFC.String(fmt.Sprint(x))
	}
}

// FormatFloat renders f in shortest round-trip form. Integral values keep a trailing ".0" and NaN is empty.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if f == math.Trunc(f) {
		s += ".0"
	}
	return s
}

// timeLayouts picks a layout per column: date-only when every time value in the column falls on midnight,
// with microseconds when any has a sub-second part.
func timeLayouts(t *dataset.Table) []string {
	layouts := make([]string, t.Width())
	midnight := make([]bool, t.Width())
	subsecond := make([]bool, t.Width())
	for c := range midnight {
		midnight[c] = true
	}

	for i := 0; i < t.Len(); i++ {
		for c, v := range t.Row(i) {
			ts, ok := v.(time.Time)
			if !ok {
				continue
			}
			ts = ts.UTC()
			if ts.Hour() != 0 || ts.Minute() != 0 || ts.Second() != 0 || ts.Nanosecond() != 0 {
				midnight[c] = false
			}
			if ts.Nanosecond() != 0 {
				subsecond[c] = true
			}
		}
	}

	for c := range layouts {
		switch {
		case midnight[c]:
			layouts[c] = dateLayout
		case subsecond[c]:
			layouts[c] = dateTimeMicros
		default:
			layouts[c] = dateTimeLayout
		}
	}
	return layouts
}

func normalizeAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = norm.NFC.String(s)
	}
	return out
}
