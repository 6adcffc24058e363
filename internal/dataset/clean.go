package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/staffx/internal/shared"
)

// Fill is the literal that replaces missing cells in one column.
type Fill struct {
	Column string
	Value  any
}

// DefaultFills lists the columns cleaned before synthesis and their fallback values.
var DefaultFills = []Fill{
	{Column: "position", Value: "Unknown"},
	{Column: "hire_date", Value: "1900-01-01"},
	{Column: "phone_number", Value: "Unknown"},
	{Column: "emergency_contact", Value: "Unknown"},
	{Column: "email_address", Value: "Unknown"},
}

// FillMissing replaces missing cells with the configured literal for each fill whose column exists and returns
// the number of cells changed. Absent columns are skipped.
func FillMissing(t *Table, fills []Fill) int {
	filled := 0
	for _, f := range fills {
		c, ok := t.index[f.Column]
		if !ok {
			continue
		}
		for _, row := range t.rows {
			if IsMissing(row[c]) {
				row[c] = f.Value
				filled++
			}
		}
	}
	return filled
}

// dateLayouts are tried in order by [ParseDate].
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// ParseDate converts a cell to a [time.Time]. Strings are tried against a fixed set of layouts; anything else,
// including numbers, is unparseable.
func ParseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

// CoerceDates rewrites column as dates. Unparseable cells become missing instead of failing the run.
//
// Returns the number of non-missing cells that could not be parsed.
func CoerceDates(t *Table, column string) (int, error) {
	c, ok := t.index[column]
	if !ok {
		return 0, fmt.Errorf("%w: column %q not found", shared.ErrSchema, column)
	}

	invalid := 0
	for _, row := range t.rows {
		if IsMissing(row[c]) {
			row[c] = nil
			continue
		}
		if ts, ok := ParseDate(row[c]); ok {
			row[c] = ts
		} else {
			row[c] = nil
			invalid++
		}
	}
	return invalid, nil
}

// MissingCounts returns the number of missing cells per column, in column order.
func MissingCounts(t *Table) []int {
	counts := make([]int, len(t.columns))
	for _, row := range t.rows {
		for i, v := range row {
			if IsMissing(v) {
				counts[i]++
			}
		}
	}
	return counts
}
