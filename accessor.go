package recell

// Accessor bundles a graph and a cell for callers that hold a single
// handle to one value, such as the pipeline layer exposing a stage.
type Accessor[T any] struct {
	graph *Graph
	cell  *Cell[T]
}

// Access creates an accessor for a cell.
func Access[T any](g *Graph, c *Cell[T]) *Accessor[T] {
	return &Accessor[T]{graph: g, cell: c}
}

// Get returns the current value, evaluating if stale.
func (a *Accessor[T]) Get() (T, error) {
	return Read(a.graph, a.cell)
}

// Peek returns the cached value without evaluating. A stale or
// never-evaluated cell reports false.
func (a *Accessor[T]) Peek() (T, bool) {
	a.graph.mu.Lock()
	defer a.graph.mu.Unlock()

	st := a.graph.states[a.cell.ID()]
	if st == nil || !st.fresh() {
		var zero T
		return zero, false
	}
	return st.value.(T), true
}

// Set stores a new value (input cells only) and invalidates dependents.
func (a *Accessor[T]) Set(value T) error {
	return Set(a.graph, a.cell, value)
}

// IsFresh reports whether a Get would return a cached value without
// recomputation.
func (a *Accessor[T]) IsFresh() bool {
	_, ok := a.Peek()
	return ok
}

// Invalidate marks the cell and its transitive dependents stale.
func (a *Accessor[T]) Invalidate() {
	a.graph.Invalidate(a.cell)
}
