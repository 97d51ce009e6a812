package recell

import (
	"fmt"
	"sort"
	"sync"
)

// Graph owns a set of cells, the dependent-edge index derived from each
// cell's last recorded upstream set, and the invalidation machinery.
// All state transitions for one graph are serialized: exactly one
// read/set sequence runs at a time, so invalidation always completes
// before any dependent read observes it. Independent graphs (one per
// user session) share no state.
type Graph struct {
	mu sync.Mutex

	cells  map[CellID]AnyCell
	states map[CellID]*cellState
	// downstream maps a dependency to the cells that read it during
	// their most recent evaluation (or their registration guess).
	downstream map[CellID]map[CellID]struct{}
	nextID     CellID

	extMu      sync.RWMutex
	extensions []Extension

	tags sync.Map
}

// cellState holds the graph-owned mutable state of one cell.
type cellState struct {
	value      any
	hasValue   bool
	stale      bool
	inProgress bool
	upstream   map[CellID]struct{}
}

func (st *cellState) fresh() bool {
	return st.hasValue && !st.stale
}

// GraphOption is a modifier for graphs.
type GraphOption func(*Graph)

// WithExtension returns an option that registers an extension.
func WithExtension(ext Extension) GraphOption {
	return func(g *Graph) {
		if err := g.UseExtension(ext); err != nil {
			panic(err)
		}
	}
}

// WithGraphTag returns an option that sets a tag on a graph.
func WithGraphTag[T any](tag Tag[T], val T) GraphOption {
	return func(g *Graph) {
		tag.SetOnGraph(g, val)
	}
}

// NewGraph creates an empty graph.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		cells:      make(map[CellID]AnyCell),
		states:     make(map[CellID]*cellState),
		downstream: make(map[CellID]map[CellID]struct{}),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// register assigns an id to the cell and seeds its state. For derived
// cells the optional upstream guess is installed as the initial
// recorded upstream set so invalidation reaches the cell before its
// first evaluation.
func (g *Graph) register(c AnyCell, upstream []AnyCell) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	c.setID(g.nextID)
	g.cells[c.ID()] = c

	st := &cellState{upstream: make(map[CellID]struct{})}
	for _, dep := range upstream {
		st.upstream[dep.ID()] = struct{}{}
		g.addEdge(dep.ID(), c.ID())
	}
	g.states[c.ID()] = st
}

func (g *Graph) addEdge(dependency, dependent CellID) {
	ds := g.downstream[dependency]
	if ds == nil {
		ds = make(map[CellID]struct{})
		g.downstream[dependency] = ds
	}
	ds[dependent] = struct{}{}
}

// commitUpstream replaces a cell's recorded upstream set with the reads
// from its latest evaluation, dropping edges no longer used and adding
// new ones. Dependencies can shrink or grow between runs.
func (g *Graph) commitUpstream(id CellID, reads map[CellID]struct{}) {
	st := g.states[id]
	for dep := range st.upstream {
		if _, still := reads[dep]; !still {
			delete(g.downstream[dep], id)
		}
	}
	for dep := range reads {
		g.addEdge(dep, id)
	}
	st.upstream = reads
}

// Invalidate marks the cell and every transitive dependent stale,
// clearing cached values. Each cell is visited at most once, so
// diamond-shaped dependents are not invalidated twice.
func (g *Graph) Invalidate(c AnyCell) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.invalidate(c.ID(), true)
}

// invalidate walks the dependent index breadth-first from id. When
// includeSelf is false only the dependents are marked (the path taken
// by Set, which leaves the input itself fresh with its new value).
func (g *Graph) invalidate(id CellID, includeSelf bool) {
	visited := map[CellID]bool{id: true}
	queue := make([]CellID, 0, 8)

	if includeSelf {
		g.markStale(id)
	}
	for dep := range g.downstream[id] {
		if !visited[dep] {
			visited[dep] = true
			queue = append(queue, dep)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		g.markStale(cur)
		for dep := range g.downstream[cur] {
			if !visited[dep] {
				visited[dep] = true
				queue = append(queue, dep)
			}
		}
	}
}

func (g *Graph) markStale(id CellID) {
	st := g.states[id]
	st.stale = true
	st.value = nil
	st.hasValue = false
}

// UseExtension registers an extension to the graph.
func (g *Graph) UseExtension(ext Extension) error {
	g.extMu.Lock()
	g.extensions = append(g.extensions, ext)
	sort.SliceStable(g.extensions, func(i, j int) bool {
		return g.extensions[i].Order() < g.extensions[j].Order()
	})
	g.extMu.Unlock()

	return ext.Init(g)
}

func (g *Graph) snapshotExtensions() []Extension {
	g.extMu.RLock()
	defer g.extMu.RUnlock()
	exts := make([]Extension, len(g.extensions))
	copy(exts, g.extensions)
	return exts
}

// runWrapped runs inner through the extension middleware chain, last
// registered wrapping first, and reports failures to OnError.
func (g *Graph) runWrapped(op *Operation, inner func() (any, error)) (any, error) {
	exts := g.snapshotExtensions()

	next := inner
	for i := len(exts) - 1; i >= 0; i-- {
		ext := exts[i]
		currentNext := next
		next = func() (any, error) {
			return ext.Wrap(currentNext, op)
		}
	}

	result, err := next()
	if err != nil {
		for _, ext := range exts {
			ext.OnError(err, op, g)
		}
	}
	return result, err
}

// ExportDependencyGraph returns a snapshot of the dependent edges,
// keyed by dependency. Used by debugging extensions.
func (g *Graph) ExportDependencyGraph() map[AnyCell][]AnyCell {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[AnyCell][]AnyCell, len(g.downstream))
	for depID, dependents := range g.downstream {
		dep := g.cells[depID]
		if dep == nil || len(dependents) == 0 {
			continue
		}
		list := make([]AnyCell, 0, len(dependents))
		for id := range dependents {
			list = append(list, g.cells[id])
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID() < list[j].ID() })
		out[dep] = list
	}
	return out
}

// Dispose tears the graph down at session end: cell state is dropped
// and extensions are disposed in registration order.
func (g *Graph) Dispose() error {
	g.mu.Lock()
	g.states = make(map[CellID]*cellState)
	g.downstream = make(map[CellID]map[CellID]struct{})
	g.cells = make(map[CellID]AnyCell)
	g.mu.Unlock()

	for _, ext := range g.snapshotExtensions() {
		if err := ext.Dispose(g); err != nil {
			return fmt.Errorf("disposing extension %s: %w", ext.Name(), err)
		}
	}
	return nil
}

// GetTag retrieves a tag value from the graph.
func (g *Graph) GetTag(tag any) (any, bool) {
	return g.tags.Load(tag)
}

// SetTag stores a tag value on the graph.
func (g *Graph) SetTag(tag any, val any) {
	g.tags.Store(tag, val)
}

// describe names a cell for diagnostics: the CellName tag when set,
// otherwise a positional fallback.
func (g *Graph) describe(c AnyCell) string {
	if name, ok := cellNameTag.Get(c); ok {
		return name
	}
	return fmt.Sprintf("cell-%d", c.ID())
}
