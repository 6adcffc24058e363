package dataset

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestDescribe(t *testing.T) {
	tbl := NewTable("user_id", "score", "position", "hire_date", "active", "empty")
	_ = tbl.AppendRow([]any{json.Number("1"), 1.5, "Eng", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true, nil})
	_ = tbl.AppendRow([]any{json.Number("2"), json.Number("2"), "Eng", nil, false, nil})
	_ = tbl.AppendRow([]any{json.Number("3"), math.NaN(), "Ops", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), true, nil})

	s := Describe(tbl)

	if s.Rows != 3 || s.Columns != 6 {
		t.Fatalf("expected shape (3, 6), got (%d, %d)", s.Rows, s.Columns)
	}

	byName := map[string]ColumnSummary{}
	for _, f := range s.Fields {
		byName[f.Name] = f
	}

	t.Run("int column", func(t *testing.T) {
		c := byName["user_id"]
		if c.Kind != KindInt {
			t.Errorf("expected int64, got %s", c.Kind)
		}
		if c.Mean != 2 || c.Min != 1 || c.Max != 3 {
			t.Errorf("unexpected stats: mean=%v min=%v max=%v", c.Mean, c.Min, c.Max)
		}
		if c.Std != 1 {
			t.Errorf("expected sample std 1, got %v", c.Std)
		}
	})

	t.Run("mixed numeric column widens to float", func(t *testing.T) {
		c := byName["score"]
		if c.Kind != KindFloat {
			t.Errorf("expected float64, got %s", c.Kind)
		}
		if c.Nulls != 1 || c.Count != 2 {
			t.Errorf("expected 1 null and 2 values, got %d and %d", c.Nulls, c.Count)
		}
	})

	t.Run("object column", func(t *testing.T) {
		c := byName["position"]
		if c.Kind != KindObject {
			t.Errorf("expected object, got %s", c.Kind)
		}
		if c.Unique != 2 || c.Top != "Eng" || c.Freq != 2 {
			t.Errorf("unexpected unique/top/freq: %d/%s/%d", c.Unique, c.Top, c.Freq)
		}
		if c.Numeric() {
			t.Error("object column should not be numeric")
		}
	})

	t.Run("date and bool columns", func(t *testing.T) {
		if byName["hire_date"].Kind != KindDate {
			t.Errorf("expected datetime64, got %s", byName["hire_date"].Kind)
		}
		if byName["hire_date"].Nulls != 1 {
			t.Errorf("expected 1 null date, got %d", byName["hire_date"].Nulls)
		}
		if byName["active"].Kind != KindBool {
			t.Errorf("expected bool, got %s", byName["active"].Kind)
		}
	})

	t.Run("all-null column", func(t *testing.T) {
		c := byName["empty"]
		if c.Kind != KindObject || c.Nulls != 3 || c.Count != 0 {
			t.Errorf("unexpected summary %+v", c)
		}
	})
}

func TestMoments(t *testing.T) {
	mean, std, lo, hi := moments([]float64{5})
	if mean != 5 || lo != 5 || hi != 5 || !math.IsNaN(std) {
		t.Errorf("single value: mean=%v std=%v min=%v max=%v", mean, std, lo, hi)
	}

	mean, _, _, _ = moments(nil)
	if !math.IsNaN(mean) {
		t.Errorf("expected NaN mean for no values, got %v", mean)
	}
}
