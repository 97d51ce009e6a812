package recell

import (
	"errors"
	"fmt"
	"strings"
)

// NotReadyError reports a read of an input cell that has no value yet,
// such as a pipeline stage evaluated before any file was uploaded. It
// is an expected transient state: callers short-circuit on it rather
// than treating it as a failure.
type NotReadyError struct {
	Cell string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("cell %s: input not set yet", e.Cell)
}

// IsNotReady reports whether err is (or wraps) a NotReadyError.
func IsNotReady(err error) bool {
	var nr *NotReadyError
	return errors.As(err, &nr)
}

// InvalidOperationError reports API misuse, such as Set on a derived
// cell. It is a programmer error and is never retried.
type InvalidOperationError struct {
	Cell string
	Op   string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("cell %s: invalid operation %q", e.Cell, e.Op)
}

// CyclicDependencyError reports that evaluating a cell transitively
// requested its own evaluation. The cycle names the cells in
// evaluation order, ending at the repeated cell.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Cycle, " -> "))
}
