package observability

import "go.uber.org/zap"

// Field aliases so callers log without importing zap directly.
//
//nolint:gochecknoglobals // Aliases, not state
var (
	String   = zap.String
	Int      = zap.Int
	Bool     = zap.Bool
	Float64  = zap.Float64
	Duration = zap.Duration
	Error    = zap.Error
)
