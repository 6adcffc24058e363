package tasks

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/desertthunder/staffx/internal/dataset"
	"github.com/desertthunder/staffx/internal/shared"
	"gonum.org/v1/gonum/floats"
)

// Engineered column names.
const (
	ColSampleNumeric       = "sample_numeric_field"
	ColEmploymentYears     = "employment_duration_years"
	ColContactAvailability = "contact_availability"
)

const (
	sampleMin = 1000
	sampleMax = 10000 // exclusive
)

// FeatureEngineer derives the engineered columns from a cleaned table.
type FeatureEngineer struct {
	rng *rand.Rand
	now func() time.Time
}

// NewFeatureEngineer creates a [FeatureEngineer] drawing samples from rng and measuring tenure against now.
func NewFeatureEngineer(rng *rand.Rand, now func() time.Time) *FeatureEngineer {
	if now == nil {
		now = time.Now
	}
	return &FeatureEngineer{rng: rng, now: now}
}

// Apply adds [ColSampleNumeric], [ColEmploymentYears] and [ColContactAvailability] to t in that order.
func (f *FeatureEngineer) Apply(t *dataset.Table) error {
	if !t.HasColumn("phone_number") {
		return fmt.Errorf("%w: column %q not found", shared.ErrSchema, "phone_number")
	}
	if _, err := dataset.CoerceDates(t, "hire_date"); err != nil {
		return err
	}

	samples := make([]float64, t.Len())
	for i := range samples {
		samples[i] = float64(sampleMin + f.rng.IntN(sampleMax-sampleMin))
	}
	samples = MinMaxScale(samples)

	t.AddColumn(ColSampleNumeric)
	t.AddColumn(ColEmploymentYears)
	t.AddColumn(ColContactAvailability)

	now := f.now()
	for i := 0; i < t.Len(); i++ {
		t.Set(i, ColSampleNumeric, samples[i])
	}
	for i := 0; i < t.Len(); i++ {
		hired, _ := t.Value(i, "hire_date")
		t.Set(i, ColEmploymentYears, EmploymentYears(now, hired))
	}
	for i := 0; i < t.Len(); i++ {
		phone, _ := t.Value(i, "phone_number")
		t.Set(i, ColContactAvailability, ContactAvailability(phone))
	}
	return nil
}

// MinMaxScale rescales xs in place to [0, 1]. A constant input maps to all zeros.
func MinMaxScale(xs []float64) []float64 {
	if len(xs) == 0 {
		return xs
	}

	lo, hi := floats.Min(xs), floats.Max(xs)
	floats.AddConst(-lo, xs)
	if span := hi - lo; span != 0 {
		// divide rather than scale by 1/span so the maximum lands exactly on 1
		for i := range xs {
			xs[i] /= span
		}
	}
	return xs
}

// EmploymentYears returns whole elapsed days between hired and now divided by 365.
//
// Both times are compared by their wall clocks, so a zoneless hire date counts from midnight in now's location.
// Days are floored, so a hire date in the future gives a negative value. A missing or non-date hire gives NaN.
func EmploymentYears(now time.Time, hired any) float64 {
	ts, ok := hired.(time.Time)
	if !ok {
		return math.NaN()
	}

	secs := wallClock(now).Unix() - wallClock(ts).Unix()
	days := secs / 86400
	if secs%86400 != 0 && secs < 0 {
		days--
	}
	return float64(days) / 365
}

// wallClock drops t's zone, keeping the date and time of day as read in t's own location.
func wallClock(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC)
}

// ContactAvailability classifies a phone cell. Only the literal "Unknown" counts as missing.
func ContactAvailability(phone any) string {
	if s, ok := phone.(string); ok && s == "Unknown" {
		return "Missing"
	}
	return "Valid"
}
