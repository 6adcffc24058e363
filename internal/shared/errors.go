package shared

import (
	"context"
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Pipeline errors
	ErrNetwork   = fmt.Errorf("network error")
	ErrDecode    = fmt.Errorf("decode error")
	ErrSchema    = fmt.Errorf("schema error")
	ErrSerialize = fmt.Errorf("serialization error")

	// Storage errors
	ErrRunNotFound = fmt.Errorf("run not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// Error kinds reported by [ErrorKind].
const (
	KindNetwork       = "network"
	KindDecode        = "decode"
	KindSchema        = "schema"
	KindSerialization = "serialization"
	KindConfig        = "config"
	KindInput         = "input"
	KindCancelled     = "cancelled"
	KindUnknown       = "unknown"
)

// ErrorKind classifies err into one of the Kind* constants by walking its wrap chain.
//
// Returns an empty string for a nil error.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrSchema):
		return KindSchema
	case errors.Is(err, ErrSerialize):
		return KindSerialization
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrMissingConfig):
		return KindConfig
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrMissingArgument), errors.Is(err, ErrInvalidArgument):
		return KindInput
	default:
		return KindUnknown
	}
}
