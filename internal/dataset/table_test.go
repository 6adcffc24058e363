package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/desertthunder/staffx/internal/shared"
	"github.com/google/go-cmp/cmp"
)

func TestTable(t *testing.T) {
	t.Run("NewTable ignores duplicate columns", func(t *testing.T) {
		tbl := NewTable("a", "b", "a")
		if diff := cmp.Diff([]string{"a", "b"}, tbl.Columns()); diff != "" {
			t.Errorf("columns mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("AppendRow checks width", func(t *testing.T) {
		tbl := NewTable("a", "b")
		if err := tbl.AppendRow([]any{1, 2}); err != nil {
			t.Fatalf("AppendRow() error: %v", err)
		}
		if err := tbl.AppendRow([]any{1}); !errors.Is(err, shared.ErrSchema) {
			t.Errorf("expected ErrSchema for short row, got %v", err)
		}
		if tbl.Len() != 1 {
			t.Errorf("expected 1 row, got %d", tbl.Len())
		}
	})

	t.Run("AddColumn pads existing rows", func(t *testing.T) {
		tbl := NewTable("a")
		_ = tbl.AppendRow([]any{1})
		idx := tbl.AddColumn("b")

		if idx != 1 {
			t.Errorf("expected index 1, got %d", idx)
		}
		if len(tbl.Row(0)) != 2 {
			t.Fatalf("expected padded row of width 2, got %d", len(tbl.Row(0)))
		}
		if tbl.Row(0)[1] != nil {
			t.Errorf("expected nil padding, got %v", tbl.Row(0)[1])
		}
	})

	t.Run("Set adds missing columns", func(t *testing.T) {
		tbl := NewTable("a")
		_ = tbl.AppendRow([]any{1})
		tbl.Set(0, "c", "x")

		if v, ok := tbl.Value(0, "c"); !ok || v != "x" {
			t.Errorf("expected x, got %v (%v)", v, ok)
		}
	})

	t.Run("Column returns a copy", func(t *testing.T) {
		tbl := NewTable("a")
		_ = tbl.AppendRow([]any{1})
		col, _ := tbl.Column("a")
		col[0] = 99

		if v, _ := tbl.Value(0, "a"); v != 1 {
			t.Errorf("mutating Column() result changed the table: %v", v)
		}
		if _, ok := tbl.Column("missing"); ok {
			t.Error("expected ok=false for unknown column")
		}
	})
}

func TestConcat(t *testing.T) {
	left := NewTable("user_id", "position", "extra")
	_ = left.AppendRow([]any{1, "Eng", "keep"})

	right := NewTable("id", "position", "user_id")
	_ = right.AppendRow([]any{100000, "Clerk", 5})
	_ = right.AppendRow([]any{100001, "Analyst", 6})

	out := Concat(left, right)

	if diff := cmp.Diff([]string{"user_id", "position", "extra", "id"}, out.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if out.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", out.Len())
	}

	want := [][]any{
		{1, "Eng", "keep", nil},
		{5, "Clerk", nil, 100000},
		{6, "Analyst", nil, 100001},
	}
	for i, row := range want {
		if diff := cmp.Diff(row, out.Row(i)); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	if left.Len() != 1 || left.Width() != 3 {
		t.Error("Concat must not mutate its inputs")
	}
}

func TestIsMissing(t *testing.T) {
	tc := []struct {
		v    any
		want bool
	}{
		{nil, true},
		{math.NaN(), true},
		{float32(math.NaN()), true},
		{"", false},
		{0, false},
		{"Unknown", false},
	}
	for _, tt := range tc {
		if got := IsMissing(tt.v); got != tt.want {
			t.Errorf("IsMissing(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
