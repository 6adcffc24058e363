package dataset

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/desertthunder/staffx/internal/shared"
)

func TestFillMissing(t *testing.T) {
	tbl := NewTable("position", "hire_date", "phone_number", "emergency_contact", "email_address", "name")
	_ = tbl.AppendRow([]any{nil, nil, nil, nil, nil, nil})
	_ = tbl.AppendRow([]any{"Eng", "2020-01-01", math.NaN(), "555", "a@x.com", "A"})

	filled := FillMissing(tbl, DefaultFills)
	if filled != 6 {
		t.Errorf("expected 6 filled cells, got %d", filled)
	}

	counts := MissingCounts(tbl)
	for i, c := range tbl.Columns() {
		if c == "name" {
			if counts[i] != 1 {
				t.Errorf("name is not a filled column and should keep its missing cell, got %d", counts[i])
			}
			continue
		}
		if counts[i] != 0 {
			t.Errorf("column %s still has %d missing cells", c, counts[i])
		}
	}

	if v, _ := tbl.Value(0, "hire_date"); v != "1900-01-01" {
		t.Errorf("expected hire_date default 1900-01-01, got %v", v)
	}
	if v, _ := tbl.Value(1, "phone_number"); v != "Unknown" {
		t.Errorf("expected NaN phone to become Unknown, got %v", v)
	}

	t.Run("absent columns are skipped", func(t *testing.T) {
		tbl := NewTable("name")
		_ = tbl.AppendRow([]any{nil})
		if n := FillMissing(tbl, DefaultFills); n != 0 {
			t.Errorf("expected 0 filled cells, got %d", n)
		}
		if tbl.HasColumn("position") {
			t.Error("FillMissing must not create columns")
		}
	})
}

func TestCoerceDates(t *testing.T) {
	tbl := NewTable("hire_date")
	for _, v := range []any{"2020-01-01", "2021-06-15T08:30:00Z", "not a date", nil, 12345, time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)} {
		_ = tbl.AppendRow([]any{v})
	}

	invalid, err := CoerceDates(tbl, "hire_date")
	if err != nil {
		t.Fatalf("CoerceDates() error: %v", err)
	}
	if invalid != 2 {
		t.Errorf("expected 2 unparseable cells, got %d", invalid)
	}

	col, _ := tbl.Column("hire_date")
	if ts, ok := col[0].(time.Time); !ok || !ts.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("row 0: expected 2020-01-01, got %#v", col[0])
	}
	if ts, ok := col[1].(time.Time); !ok || ts.Hour() != 8 {
		t.Errorf("row 1: expected RFC 3339 timestamp, got %#v", col[1])
	}
	for _, i := range []int{2, 3, 4} {
		if col[i] != nil {
			t.Errorf("row %d: expected missing date, got %#v", i, col[i])
		}
	}
	if _, ok := col[5].(time.Time); !ok {
		t.Errorf("row 5: expected time.Time to pass through, got %#v", col[5])
	}

	t.Run("idempotent", func(t *testing.T) {
		invalid, err := CoerceDates(tbl, "hire_date")
		if err != nil || invalid != 0 {
			t.Errorf("second pass: invalid=%d err=%v", invalid, err)
		}
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := CoerceDates(NewTable("name"), "hire_date")
		if !errors.Is(err, shared.ErrSchema) {
			t.Errorf("expected ErrSchema, got %v", err)
		}
	})
}

func TestParseDate(t *testing.T) {
	tc := []struct {
		in   string
		want time.Time
	}{
		{"1900-01-01", time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2020-02-03 04:05:06", time.Date(2020, 2, 3, 4, 5, 6, 0, time.UTC)},
		{"2020-02-03T04:05:06", time.Date(2020, 2, 3, 4, 5, 6, 0, time.UTC)},
		{"2020/02/03", time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC)},
		{"02/03/2020", time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC)},
		{" 2020-02-03 ", time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tc {
		got, ok := ParseDate(tt.in)
		if !ok || !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, %v; want %v", tt.in, got, ok, tt.want)
		}
	}

	if _, ok := ParseDate("2020-13-45"); ok {
		t.Error("expected invalid month/day to fail")
	}
}
