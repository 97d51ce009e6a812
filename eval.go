package recell

// EvalCtx identifies the cell currently being evaluated. It is passed
// explicitly to computations so that upstream reads performed through
// Use can be recorded against the right cell — there is no ambient
// "current computation" state. The parent chain doubles as the cycle
// diagnostic.
type EvalCtx struct {
	graph  *Graph
	cell   AnyCell
	parent *EvalCtx
	reads  map[CellID]struct{}
}

// Graph returns the graph the evaluation belongs to.
func (ec *EvalCtx) Graph() *Graph {
	return ec.graph
}

// Use reads an upstream cell from inside a computation, recording the
// dependency edge for this evaluation. The recorded set replaces the
// cell's previous upstream set when the evaluation succeeds, so
// branches that skip an upstream drop its edge.
func Use[T any](ec *EvalCtx, c *Cell[T]) (T, error) {
	ec.reads[c.ID()] = struct{}{}
	val, err := ec.graph.readLocked(c, ec)
	if err != nil {
		var zero T
		return zero, err
	}
	return val.(T), nil
}

// Read returns the cell's current value, evaluating it (and any stale
// transitive upstream) if needed. A fresh cell returns its cached value
// without re-running anything. Input cells with no value yet fail with
// NotReadyError.
func Read[T any](g *Graph, c *Cell[T]) (T, error) {
	op := &Operation{Kind: OpRead, Cell: c, Graph: g}
	result, err := g.runWrapped(op, func() (any, error) {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.readLocked(c, nil)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// Set stores a new value on an input cell, marking it fresh, then marks
// every transitive dependent stale. Concurrent Set calls on the same
// graph are serialized. Set on a derived cell fails with
// InvalidOperationError.
func Set[T any](g *Graph, c *Cell[T], value T) error {
	op := &Operation{Kind: OpSet, Cell: c, Graph: g}
	_, err := g.runWrapped(op, func() (any, error) {
		g.mu.Lock()
		defer g.mu.Unlock()

		if c.Kind() != KindInput {
			return nil, &InvalidOperationError{Cell: g.describe(c), Op: "set"}
		}

		st := g.states[c.ID()]
		st.value = value
		st.hasValue = true
		st.stale = false
		g.invalidate(c.ID(), false)
		return nil, nil
	})
	return err
}

// readLocked is the evaluator. It runs under the graph lock; nested
// upstream reads recurse through it directly rather than re-locking.
//
//  1. Fresh cached value: return it, O(1).
//  2. Input with no value: NotReadyError.
//  3. Mid-evaluation cell requested again: CyclicDependencyError.
//  4. Otherwise run the computation, recording reads; on success cache
//     the value and replace the upstream set, on failure cache nothing
//     and leave the cell stale so a later read retries.
func (g *Graph) readLocked(c AnyCell, parent *EvalCtx) (any, error) {
	st := g.states[c.ID()]
	if st == nil {
		return nil, &InvalidOperationError{Cell: g.describe(c), Op: "read (unregistered cell)"}
	}

	if st.fresh() {
		return st.value, nil
	}

	if c.Kind() == KindInput {
		return nil, &NotReadyError{Cell: g.describe(c)}
	}

	if st.inProgress {
		return nil, &CyclicDependencyError{Cycle: g.cyclePath(c, parent)}
	}

	st.inProgress = true
	ec := &EvalCtx{
		graph:  g,
		cell:   c,
		parent: parent,
		reads:  make(map[CellID]struct{}),
	}

	val, err := c.computeAny(ec)
	st.inProgress = false
	if err != nil {
		return nil, err
	}

	st.value = val
	st.hasValue = true
	st.stale = false
	g.commitUpstream(c.ID(), ec.reads)
	return val, nil
}

// cyclePath reconstructs the offending cycle from the evaluation chain,
// in evaluation order, ending at the re-requested cell.
func (g *Graph) cyclePath(c AnyCell, parent *EvalCtx) []string {
	path := []string{g.describe(c)}
	for ec := parent; ec != nil; ec = ec.parent {
		path = append(path, g.describe(ec.cell))
		if ec.cell.ID() == c.ID() {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
