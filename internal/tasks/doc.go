// Package tasks runs the staffx data pipeline with real-time progress reporting.
//
// # Steps
//
// [Pipeline.Run] executes the steps in order over a single [dataset.Table]:
//
//  1. Fetch: GET the users and employees paths through a [services.Source]
//  2. Shape: parse each body as a list or keyed payload and build a table
//  3. Join: inner join employees with users on the join key, suffixing colliding columns
//  4. Describe: compute a [dataset.Summary] of the joined table
//  5. Clean: fill defaults in the five contact/employment columns and coerce hire_date to dates
//  6. Synthesize: pad with faker records up to the target row count, never truncating
//  7. Features: add sample_numeric_field, employment_duration_years and contact_availability
//  8. Write: serialize to CSV through a temporary file
//
// # Progress Reporting
//
// All steps use a non-blocking channel for progress updates.
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Synthesis
//
// The [Synthesizer] splits the records to generate into chunks and fans them out to a worker pool. Every chunk gets
// its own gofakeit faker seeded from a master PCG stream, so the result is identical for a given seed and clock no
// matter how the chunks are scheduled.
//
// # Run Ledger
//
// The optional [RunRecorder] interface receives each run before the first fetch and again with its outcome.
// Recorder errors are logged and ignored. repositories.RunRepository implements it over SQLite.
package tasks
