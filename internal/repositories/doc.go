// Package repositories implements SQLite persistence for the run ledger.
//
// [RunRepository] implements models.Repository[*models.Run] with atomic sequence generation for human-readable
// ordering. Deletes are soft: a deleted_at timestamp hides the row from every query.
//
// The repository also satisfies the pipeline's run recorder through [RunRepository.StartRun] and
// [RunRepository.FinishRun], so each `staffx run` leaves a row behind with its outcome.
//
// Sequence numbers provide stable, human-readable ordering (run #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
