package extensions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recell/recell"
)

// GraphDebug logs the recorded dependency edges when a read fails,
// so a broken pipeline shows which cell failed and what depends on it.
//
// Usage:
//
//	// Structured JSON logging
//	ext := extensions.NewGraphDebug(slog.NewJSONHandler(os.Stderr, nil))
//
//	// Silent (for testing)
//	ext := extensions.NewGraphDebug(extensions.NewSilentHandler())
type GraphDebug struct {
	recell.BaseExtension
	logger *slog.Logger
}

// NewGraphDebug creates a graph debug extension writing to the given
// handler.
func NewGraphDebug(handler slog.Handler) *GraphDebug {
	return &GraphDebug{
		BaseExtension: recell.NewBaseExtension("graph-debug"),
		logger:        slog.New(handler),
	}
}

// OnError logs the failing cell and the current edge snapshot. NotReady
// short-circuits are skipped; they carry no debugging signal.
func (e *GraphDebug) OnError(err error, op *recell.Operation, g *recell.Graph) {
	if recell.IsNotReady(err) {
		return
	}

	e.logger.Error("graph operation failed",
		"cell", cellName(op.Cell),
		"operation", string(op.Kind),
		"error", err.Error(),
		"dependency_graph", formatEdges(g),
	)
}

func formatEdges(g *recell.Graph) string {
	edges := g.ExportDependencyGraph()
	if len(edges) == 0 {
		return "(no dependencies recorded)"
	}

	var lines []string
	for dep, dependents := range edges {
		names := make([]string, len(dependents))
		for i, d := range dependents {
			names[i] = cellName(d)
		}
		lines = append(lines, fmt.Sprintf("%s -> [%s]", cellName(dep), strings.Join(names, ", ")))
	}
	return strings.Join(lines, "; ")
}

// SilentHandler is a slog.Handler that discards all output. Useful in
// tests that exercise failure paths.
type SilentHandler struct{}

// NewSilentHandler creates a new silent log handler.
func NewSilentHandler() *SilentHandler {
	return &SilentHandler{}
}

func (h *SilentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return false
}

func (h *SilentHandler) Handle(ctx context.Context, record slog.Record) error {
	return nil
}

func (h *SilentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *SilentHandler) WithGroup(name string) slog.Handler {
	return h
}
