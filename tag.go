package recell

// Tag is a type-safe key for metadata on cells and graphs.
type Tag[T any] struct {
	key string
}

// NewTag creates a new tag with the given key.
func NewTag[T any](key string) Tag[T] {
	return Tag[T]{key: key}
}

// Key returns the tag's key (for debugging).
func (t Tag[T]) Key() string {
	return t.key
}

// Get retrieves the tag value from a cell.
func (t Tag[T]) Get(cell AnyCell) (T, bool) {
	val, ok := cell.GetTag(t)
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// GetOrDefault retrieves the tag value or returns a default.
func (t Tag[T]) GetOrDefault(cell AnyCell, defaultVal T) T {
	if val, ok := t.Get(cell); ok {
		return val
	}
	return defaultVal
}

// Set stores the tag value on a cell.
func (t Tag[T]) Set(cell AnyCell, val T) {
	cell.SetTag(t, val)
}

// GetFromGraph retrieves the tag value from a graph.
func (t Tag[T]) GetFromGraph(g *Graph) (T, bool) {
	val, ok := g.GetTag(t)
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// SetOnGraph stores the tag value on a graph.
func (t Tag[T]) SetOnGraph(g *Graph, val T) {
	g.SetTag(t, val)
}

var cellNameTag = NewTag[string]("cell.name")

// CellName returns the predefined tag holding a cell's human-readable
// name. Errors and the graph-debug extension use it in diagnostics.
func CellName() Tag[string] {
	return cellNameTag
}
