// Package extensions provides cross-cutting graph extensions: slog
// operation logging and dependency-graph dumps on failure.
package extensions

import (
	"log/slog"
	"time"

	"github.com/recell/recell"
)

// Logging logs every graph operation with its duration. NotReady
// failures log at debug level: an input with no value yet is an
// expected transient state, not an error.
type Logging struct {
	recell.BaseExtension
	logger *slog.Logger
}

// NewLogging creates a logging extension writing to the given handler.
func NewLogging(handler slog.Handler) *Logging {
	return &Logging{
		BaseExtension: recell.NewBaseExtension("logging"),
		logger:        slog.New(handler),
	}
}

func (e *Logging) Wrap(next func() (any, error), op *recell.Operation) (any, error) {
	start := time.Now()
	result, err := next()
	duration := time.Since(start)

	attrs := []any{
		"operation", string(op.Kind),
		"cell", cellName(op.Cell),
		"duration", duration,
	}

	switch {
	case err == nil:
		e.logger.Debug("operation completed", attrs...)
	case recell.IsNotReady(err):
		e.logger.Debug("operation short-circuited: input not ready", attrs...)
	default:
		e.logger.Error("operation failed", append(attrs, "error", err.Error())...)
	}

	return result, err
}

func cellName(c recell.AnyCell) string {
	return recell.CellName().GetOrDefault(c, "unnamed")
}
