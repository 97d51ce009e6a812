// Package recell provides a small dependency-tracked computation graph
// for reactive data pipelines: named cells hold either externally-set
// input values or derived computations, and the graph recomputes
// derived values lazily, memoizing results and invalidating them when
// an upstream input changes.
//
// # Basic Usage
//
// Register cells on a graph, then read and set through the package
// functions:
//
//	g := recell.NewGraph()
//
//	raw := recell.NewInput[string](g,
//	    recell.WithTag(recell.CellName(), "raw"),
//	)
//
//	upper := recell.NewDerived(g, func(ec *recell.EvalCtx) (string, error) {
//	    s, err := recell.Use(ec, raw)
//	    if err != nil {
//	        return "", err
//	    }
//	    return strings.ToUpper(s), nil
//	}, recell.WithUpstream(raw))
//
//	recell.Set(g, raw, "hello")
//	v, err := recell.Read(g, upper) // "HELLO"
//
// Reading a derived cell evaluates it only if it is stale or has never
// run; a fresh cell returns its cached value in O(1). Reading an input
// cell before any Set fails with NotReadyError, which callers treat as
// a normal short-circuit ("no file uploaded yet"), not a crash.
//
// # Dependency Tracking
//
// Every upstream read inside a computation goes through Use, which
// records the edge against the evaluating cell. The recorded upstream
// set replaces the previous one after each successful evaluation, so
// computations whose branches skip an upstream stop being invalidated
// by it. WithUpstream seeds the edge index for cells that have never
// evaluated.
//
// Setting an input stores the new value fresh and marks every
// transitive dependent stale, breadth-first, visiting each cell once —
// diamond-shaped graphs recompute shared upstreams exactly once on the
// next read.
//
// A computation that transitively requests its own value fails with
// CyclicDependencyError naming the cycle instead of recursing forever.
//
// # Extensions
//
// Extensions hook into reads and sets as middleware, in the manner of
// the extensions subpackage's logging and graph-debug helpers:
//
//	g := recell.NewGraph(
//	    recell.WithExtension(extensions.NewLogging(handler)),
//	)
//
// # Concurrency
//
// All reads and sets on one graph are serialized by the graph; an
// invalidation always completes before any dependent read observes it.
// Graphs are independent — use one per user session and Dispose it when
// the session ends.
package recell
