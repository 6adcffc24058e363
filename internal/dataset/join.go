package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/desertthunder/staffx/internal/shared"
)

// JoinOptions configures [InnerJoin].
type JoinOptions struct {
	On          string // Key column present in both tables
	LeftSuffix  string // Appended to left non-key columns whose name also appears on the right
	RightSuffix string // Appended to right non-key columns whose name also appears on the left
}

// On returns join options for key with the conventional "_x"/"_y" collision suffixes.
func On(key string) JoinOptions {
	return JoinOptions{On: key, LeftSuffix: "_x", RightSuffix: "_y"}
}

// InnerJoin equijoins left and right on opts.On.
//
// Rows come out in left order, each left row followed by every matching right row in right order, so duplicate
// keys multiply. Rows whose key is missing or unmatched are dropped. The output columns are the left columns
// followed by the right non-key columns.
func InnerJoin(left, right *Table, opts JoinOptions) (*Table, error) {
	lk, ok := left.ColumnIndex(opts.On)
	if !ok {
		return nil, fmt.Errorf("%w: join key %q missing from left table", shared.ErrSchema, opts.On)
	}
	rk, ok := right.ColumnIndex(opts.On)
	if !ok {
		return nil, fmt.Errorf("%w: join key %q missing from right table", shared.ErrSchema, opts.On)
	}

	out := NewTable()
	for i, c := range left.columns {
		if i != lk && right.HasColumn(c) {
			c += opts.LeftSuffix
		}
		out.AddColumn(c)
	}
	rightCols := make([]int, 0, len(right.columns))
	for i, c := range right.columns {
		if i == rk {
			continue
		}
		if left.HasColumn(c) {
			c += opts.RightSuffix
		}
		out.AddColumn(c)
		rightCols = append(rightCols, i)
	}
	if out.Width() != len(left.columns)+len(rightCols) {
		return nil, fmt.Errorf("%w: suffixed column names collide", shared.ErrSchema)
	}

	matches := make(map[string][]int, right.Len())
	for i, row := range right.rows {
		if k, ok := JoinKey(row[rk]); ok {
			matches[k] = append(matches[k], i)
		}
	}

	for _, lrow := range left.rows {
		k, ok := JoinKey(lrow[lk])
		if !ok {
			continue
		}
		for _, ri := range matches[k] {
			cells := make([]any, 0, out.Width())
			cells = append(cells, lrow...)
			for _, c := range rightCols {
				cells = append(cells, right.rows[ri][c])
			}
			out.rows = append(out.rows, cells)
		}
	}
	return out, nil
}

// JoinKey returns the canonical comparison form of a key cell.
//
// Numbers compare by value regardless of representation, strings by text, and the two never match each other.
// Missing values report false.
func JoinKey(v any) (string, bool) {
	if IsMissing(v) {
		return "", false
	}

	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return numberKey(float64(i), i), true
		}
		f, err := x.Float64()
		if err != nil {
			return "s:" + x.String(), true
		}
		return numberKey(f, 0), true
	case int:
		return numberKey(float64(x), int64(x)), true
	case int64:
		return numberKey(float64(x), x), true
	case float64:
		return numberKey(x, 0), true
	case string:
		return "s:" + x, true
	case bool:
		return "b:" + strconv.FormatBool(x), true
	default:
		return fmt.Sprintf("v:%v", x), true
	}
}

func numberKey(f float64, i int64) string {
	if i != 0 || f == 0 {
		return "n:" + strconv.FormatInt(i, 10)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return "n:" + strconv.FormatInt(int64(f), 10)
	}
	return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
}
