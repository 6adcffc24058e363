// Package models defines the persistent entities of the staffx run ledger.
//
// [Run] records one pipeline execution: its status, the row counts at each stage, the output path and, for
// failed runs, the error kind from [shared.ErrorKind]. Fields are private and exposed through getters and
// setters so repositories can rebuild a run from a database row.
//
// All persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations with soft delete.
package models
