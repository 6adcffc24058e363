package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Column kinds reported by [Describe], named after the dtypes analysts expect to see.
const (
	KindInt    = "int64"
	KindFloat  = "float64"
	KindBool   = "bool"
	KindDate   = "datetime64"
	KindObject = "object"
)

// ColumnSummary holds the statistics for one column.
type ColumnSummary struct {
	Name  string
	Kind  string
	Count int // non-missing cells
	Nulls int

	// Object and bool columns
	Unique int
	Top    string
	Freq   int

	// Numeric columns
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Numeric reports whether the numeric statistics are meaningful.
func (c ColumnSummary) Numeric() bool {
	return c.Kind == KindInt || c.Kind == KindFloat
}

// Summary describes a table's shape and per-column statistics.
type Summary struct {
	Rows    int
	Columns int
	Fields  []ColumnSummary
}

// Describe computes a [Summary] of t.
func Describe(t *Table) Summary {
	s := Summary{Rows: t.Len(), Columns: t.Width(), Fields: make([]ColumnSummary, 0, t.Width())}
	nulls := MissingCounts(t)
	for c, name := range t.columns {
		s.Fields = append(s.Fields, describeColumn(t, c, name, nulls[c]))
	}
	return s
}

func describeColumn(t *Table, c int, name string, nulls int) ColumnSummary {
	cs := ColumnSummary{Name: name, Nulls: nulls}

	values := make([]any, 0, len(t.rows)-nulls)
	for _, row := range t.rows {
		if !IsMissing(row[c]) {
			values = append(values, row[c])
		}
	}
	cs.Count = len(values)
	cs.Kind = inferKind(values)

	if cs.Numeric() {
		nums := make([]float64, len(values))
		for i, v := range values {
			nums[i], _ = ToFloat(v)
		}
		cs.Mean, cs.Std, cs.Min, cs.Max = moments(nums)
		return cs
	}

	freq := make(map[string]int, len(values))
	for _, v := range values {
		key := displayValue(v)
		freq[key]++
		if freq[key] > cs.Freq || (freq[key] == cs.Freq && key < cs.Top) {
			cs.Top, cs.Freq = key, freq[key]
		}
	}
	cs.Unique = len(freq)
	return cs
}

func inferKind(values []any) string {
	if len(values) == 0 {
		return KindObject
	}

	kind := ""
	for _, v := range values {
		var k string
		switch x := v.(type) {
		case json.Number:
			if _, err := x.Int64(); err == nil {
				k = KindInt
			} else {
				k = KindFloat
			}
		case int, int64:
			k = KindInt
		case float64, float32:
			k = KindFloat
		case bool:
			k = KindBool
		case time.Time:
			k = KindDate
		default:
			return KindObject
		}

		switch {
		case kind == "":
			kind = k
		case kind == k:
		case (kind == KindInt && k == KindFloat) || (kind == KindFloat && k == KindInt):
			kind = KindFloat
		default:
			return KindObject
		}
	}
	return kind
}

// moments returns mean, sample standard deviation, min and max. Std is NaN for fewer than two values.
func moments(nums []float64) (mean, std, lo, hi float64) {
	if len(nums) == 0 {
		return math.NaN(), math.NaN(), math.NaN(), math.NaN()
	}

	mean, std = stat.MeanStdDev(nums, nil)
	return mean, std, floats.Min(nums), floats.Max(nums)
}

// ToFloat converts numeric cells to float64.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	default:
		return 0, false
	}
}

func displayValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
