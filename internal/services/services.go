package services

import (
	"context"
)

// Source fetches raw JSON bodies from the source API.
type Source interface {
	// FetchJSON returns the body of a successful GET to path.
	FetchJSON(ctx context.Context, path string) ([]byte, error)
}

var _ Source = (*APIService)(nil)
