package extensions

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/recell/recell"
)

func TestGraphDebugLogsFailedRead(t *testing.T) {
	var buf bytes.Buffer
	g := recell.NewGraph(
		recell.WithExtension(NewGraphDebug(slog.NewTextHandler(&buf, nil))),
	)

	a := recell.NewInput[int](g, recell.WithTag(recell.CellName(), "a"))
	boom := errors.New("boom")
	bad := recell.NewDerived(g, func(ec *recell.EvalCtx) (int, error) {
		if _, err := recell.Use(ec, a); err != nil {
			return 0, err
		}
		return 0, boom
	}, recell.WithTag(recell.CellName(), "bad"), recell.WithUpstream(a))

	recell.Set(g, a, 1)
	_, err := recell.Read(g, bad)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "bad") {
		t.Errorf("expected log to name the failing cell, got %q", out)
	}
	if !strings.Contains(out, "dependency_graph") {
		t.Errorf("expected log to include the edge dump, got %q", out)
	}
}

func TestGraphDebugSkipsNotReady(t *testing.T) {
	var buf bytes.Buffer
	g := recell.NewGraph(
		recell.WithExtension(NewGraphDebug(slog.NewTextHandler(&buf, nil))),
	)

	a := recell.NewInput[int](g)
	if _, err := recell.Read(g, a); !recell.IsNotReady(err) {
		t.Fatalf("expected NotReady, got %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("expected no log output for NotReady, got %q", buf.String())
	}
}

func TestLoggingPassesValuesThrough(t *testing.T) {
	g := recell.NewGraph(
		recell.WithExtension(NewLogging(NewSilentHandler())),
	)

	a := recell.NewInput[int](g)
	if err := recell.Set(g, a, 3); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	val, err := recell.Read(g, a)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if val != 3 {
		t.Errorf("expected 3, got %d", val)
	}
}

func TestSilentHandlerDiscards(t *testing.T) {
	h := NewSilentHandler()
	logger := slog.New(h)
	logger.Error("should vanish")

	if h.Enabled(context.Background(), slog.LevelError) {
		t.Error("silent handler must never be enabled")
	}
}
