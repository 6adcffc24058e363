package repositories

import (
	"database/sql"
	"fmt"
)

// rowQuerier is satisfied by both [sql.DB] and [sql.Tx].
type rowQuerier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// NextSequence increments and returns the counter in table's sequence table.
//
// Pass a [sql.Tx] to roll the increment back together with the insert that consumes it.
func NextSequence(q rowQuerier, table string) (int, error) {
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)

	var sequence int
	if err := q.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to increment %s sequence: %w", table, err)
	}
	return sequence, nil
}
