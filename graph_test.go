package recell

import (
	"errors"
	"testing"
)

func TestInputSetRead(t *testing.T) {
	g := NewGraph()

	file := NewInput[string](g)

	if err := Set(g, file, "report.csv"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	val, err := Read(g, file)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if val != "report.csv" {
		t.Errorf("expected report.csv, got %s", val)
	}
}

func TestReadBeforeSetFailsNotReady(t *testing.T) {
	g := NewGraph()

	file := NewInput[string](g, WithTag(CellName(), "file"))

	_, err := Read(g, file)
	if err == nil {
		t.Fatal("expected NotReady error")
	}
	if !IsNotReady(err) {
		t.Fatalf("expected NotReady, got %v", err)
	}

	var nr *NotReadyError
	if !errors.As(err, &nr) {
		t.Fatalf("expected *NotReadyError, got %T", err)
	}
	if nr.Cell != "file" {
		t.Errorf("expected error to name cell file, got %s", nr.Cell)
	}
}

func TestNotReadyPropagatesThroughDerived(t *testing.T) {
	g := NewGraph()

	file := NewInput[string](g, WithTag(CellName(), "file"))
	length := NewDerived(g, func(ec *EvalCtx) (int, error) {
		s, err := Use(ec, file)
		if err != nil {
			return 0, err
		}
		return len(s), nil
	})

	_, err := Read(g, length)
	if !IsNotReady(err) {
		t.Fatalf("expected NotReady through derived cell, got %v", err)
	}
}

func TestSetOnDerivedFails(t *testing.T) {
	g := NewGraph()

	derived := NewDerived(g, func(ec *EvalCtx) (int, error) {
		return 1, nil
	}, WithTag(CellName(), "derived"))

	err := Set(g, derived, 5)
	if err == nil {
		t.Fatal("expected InvalidOperation error")
	}

	var ioe *InvalidOperationError
	if !errors.As(err, &ioe) {
		t.Fatalf("expected *InvalidOperationError, got %T", err)
	}
	if ioe.Cell != "derived" || ioe.Op != "set" {
		t.Errorf("unexpected error fields: %+v", ioe)
	}
}

func TestInvalidationCompleteness(t *testing.T) {
	g := NewGraph()

	a := NewInput[int](g)
	b := NewDerived(g, func(ec *EvalCtx) (int, error) {
		v, err := Use(ec, a)
		return v + 1, err
	})
	c := NewDerived(g, func(ec *EvalCtx) (int, error) {
		v, err := Use(ec, b)
		return v + 1, err
	})

	// Unrelated branch must stay fresh.
	x := NewInput[int](g)
	y := NewDerived(g, func(ec *EvalCtx) (int, error) {
		v, err := Use(ec, x)
		return v + 1, err
	})

	Set(g, a, 1)
	Set(g, x, 10)
	if _, err := Read(g, c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := Read(g, y); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	Set(g, a, 2)

	if _, ok := Access(g, b).Peek(); ok {
		t.Error("expected b to be stale after upstream set")
	}
	if _, ok := Access(g, c).Peek(); ok {
		t.Error("expected c to be stale after upstream set")
	}
	if _, ok := Access(g, y).Peek(); !ok {
		t.Error("expected unrelated y to stay fresh")
	}

	val, err := Read(g, c)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if val != 4 {
		t.Errorf("expected 4, got %d", val)
	}
}

func TestAccessor(t *testing.T) {
	g := NewGraph()

	counter := NewInput[int](g)
	ctrl := Access(g, counter)

	if ctrl.IsFresh() {
		t.Error("expected unset input to not be fresh")
	}

	if err := ctrl.Set(5); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	val, err := ctrl.Get()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if val != 5 {
		t.Errorf("expected 5, got %d", val)
	}

	if peeked, ok := ctrl.Peek(); !ok || peeked != 5 {
		t.Errorf("expected Peek to return 5, got %d (ok=%v)", peeked, ok)
	}

	ctrl.Invalidate()
	if ctrl.IsFresh() {
		t.Error("expected input to be stale after Invalidate")
	}
	if _, err := ctrl.Get(); !IsNotReady(err) {
		t.Errorf("expected NotReady after Invalidate, got %v", err)
	}
}

func TestSetLeavesInputFresh(t *testing.T) {
	g := NewGraph()

	a := NewInput[int](g)
	Set(g, a, 7)

	if val, ok := Access(g, a).Peek(); !ok || val != 7 {
		t.Errorf("expected input fresh with 7 after Set, got %d (ok=%v)", val, ok)
	}
}

func TestGraphTags(t *testing.T) {
	sessionTag := NewTag[string]("session.id")

	g := NewGraph(
		WithGraphTag(sessionTag, "abc-123"),
	)

	id, ok := sessionTag.GetFromGraph(g)
	if !ok {
		t.Fatal("expected session tag to be set")
	}
	if id != "abc-123" {
		t.Errorf("expected abc-123, got %s", id)
	}
}

func TestCellTags(t *testing.T) {
	g := NewGraph()

	versionTag := NewTag[string]("version")
	cell := NewInput[int](g, WithTag(versionTag, "1.0.0"))

	version, ok := versionTag.Get(cell)
	if !ok {
		t.Fatal("expected version tag to be set")
	}
	if version != "1.0.0" {
		t.Errorf("expected 1.0.0, got %s", version)
	}

	if got := versionTag.GetOrDefault(cell, "none"); got != "1.0.0" {
		t.Errorf("expected 1.0.0, got %s", got)
	}

	other := NewInput[int](g)
	if got := versionTag.GetOrDefault(other, "none"); got != "none" {
		t.Errorf("expected default, got %s", got)
	}
}

func TestDispose(t *testing.T) {
	g := NewGraph()

	a := NewInput[int](g)
	Set(g, a, 1)

	if err := g.Dispose(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
