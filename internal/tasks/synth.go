package tasks

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/desertthunder/staffx/internal/dataset"
)

// SyntheticColumns is the column order of a generated record.
var SyntheticColumns = []string{
	"id", "name", "position", "hire_date", "phone_number",
	"emergency_contact", "email_address", "user_id", "username", "email",
}

// Positions are the job titles drawn for synthetic employees.
var Positions = []string{"Manager", "Engineer", "Analyst", "Clerk"}

const (
	defaultChunkSize  = 10_000
	defaultNumWorkers = 4
	maxNumWorkers     = 16
)

// SynthesizerOpts configures a [Synthesizer].
type SynthesizerOpts struct {
	Seed       uint64           // Seeds the chunk faker sources
	Now        func() time.Time // Anchors the hire date window (default: time.Now)
	ChunkSize  int              // Records generated per job (default: 10000)
	NumWorkers int              // Concurrent generators (default: 4, max: 16)
}

// Synthesizer generates fake employee/user records to pad a table up to a target row count.
//
// Records are generated in fixed-size chunks by a worker pool. Each chunk owns a faker seeded from the master
// sequence, so the output depends only on the seed and the clock.
type Synthesizer struct {
	master *rand.Rand
	now    func() time.Time
	opts   SynthesizerOpts
}

// NewSynthesizer creates a [Synthesizer].
func NewSynthesizer(opts SynthesizerOpts) *Synthesizer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultNumWorkers
	}
	if opts.NumWorkers > maxNumWorkers {
		opts.NumWorkers = maxNumWorkers
	}

	return &Synthesizer{
		master: rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		now:    opts.Now,
		opts:   opts,
	}
}

// Record generates one synthetic row in [SyntheticColumns] order.
//
// Hire dates are zoneless calendar dates ending on today's date as read in now's location.
func Record(f *gofakeit.Faker, now time.Time) []any {
	y, m, d := now.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(-10, 0, 0)
	hired := f.DateRange(start, end.Add(24*time.Hour-time.Nanosecond)).UTC().Truncate(24 * time.Hour)

	return []any{
		f.IntRange(100000, 999999),
		f.Name(),
		f.RandomString(Positions),
		hired,
		f.Phone(),
		f.Phone(),
		f.Email(),
		f.IntRange(1, 100000),
		f.Username(),
		f.Email(),
	}
}

type synthJob struct {
	index int
	count int
	seed  uint64
}

type synthResult struct {
	index int
	rows  [][]any
}

// Generate returns n synthetic rows.
//
// A cancelled context stops the pool and returns ctx.Err().
func (s *Synthesizer) Generate(ctx context.Context, n int) (*dataset.Table, error) {
	out := dataset.NewTable(SyntheticColumns...)
	if n <= 0 {
		return out, nil
	}

	now := s.now()
	numChunks := (n + s.opts.ChunkSize - 1) / s.opts.ChunkSize
	jobs := make(chan synthJob, numChunks)
	results := make(chan synthResult, numChunks)

	for i := range numChunks {
		count := s.opts.ChunkSize
		if rem := n - i*s.opts.ChunkSize; rem < count {
			count = rem
		}
		jobs <- synthJob{index: i, count: count, seed: s.master.Uint64()}
	}
	close(jobs)

	var wg sync.WaitGroup
	for range min(s.opts.NumWorkers, numChunks) {
		wg.Add(1)
		go s.synthWorker(ctx, &wg, now, jobs, results)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	chunks := make([][][]any, numChunks)
	for res := range results {
		chunks[res.index] = res.rows
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out.Grow(n)
	for _, chunk := range chunks {
		for _, row := range chunk {
			if err := out.AppendRow(row); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (s *Synthesizer) synthWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	now time.Time,
	jobs <-chan synthJob,
	results chan<- synthResult,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		f := gofakeit.NewFaker(rand.NewPCG(job.seed, job.seed+1), false)
		rows := make([][]any, job.count)
		for i := range rows {
			rows[i] = Record(f, now)
		}
		results <- synthResult{index: job.index, rows: rows}
	}
}

// PadTo appends synthetic rows to t until it holds target rows and returns the padded table with the number of
// rows generated. A table already above target is returned unchanged. Rows are never removed.
func (s *Synthesizer) PadTo(ctx context.Context, t *dataset.Table, target int) (*dataset.Table, int, error) {
	n := target - t.Len()
	if n <= 0 {
		return t, 0, nil
	}

	synthetic, err := s.Generate(ctx, n)
	if err != nil {
		return nil, 0, err
	}
	return dataset.Concat(t, synthetic), n, nil
}
