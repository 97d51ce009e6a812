package recell

// CellID uniquely identifies a cell within its graph.
type CellID uint64

// CellKind distinguishes externally-set inputs from computed cells.
type CellKind string

const (
	// KindInput marks a cell whose value is set from outside the graph.
	KindInput CellKind = "input"
	// KindDerived marks a cell whose value is produced by a computation.
	KindDerived CellKind = "derived"
)

// AnyCell is a type-erased view of a cell, used by the graph for
// dependency tracking and by extensions for diagnostics.
type AnyCell interface {
	ID() CellID
	Kind() CellKind
	GetTag(tag any) (any, bool)
	SetTag(tag any, val any)

	computeAny(ec *EvalCtx) (any, error)
	setID(id CellID)
}

// Cell is a named holder of either a raw input value or a derived
// computation. State (cached value, staleness, recorded upstream set)
// lives in the owning Graph; the cell itself is immutable after
// registration apart from its tags.
type Cell[T any] struct {
	id      CellID
	kind    CellKind
	compute func(*EvalCtx) (T, error)
	tags    map[any]any
}

func (c *Cell[T]) ID() CellID {
	return c.id
}

func (c *Cell[T]) Kind() CellKind {
	return c.kind
}

func (c *Cell[T]) GetTag(tag any) (any, bool) {
	val, ok := c.tags[tag]
	return val, ok
}

func (c *Cell[T]) SetTag(tag any, val any) {
	c.tags[tag] = val
}

func (c *Cell[T]) computeAny(ec *EvalCtx) (any, error) {
	return c.compute(ec)
}

func (c *Cell[T]) setID(id CellID) {
	c.id = id
}

type cellConfig struct {
	tags     map[any]any
	upstream []AnyCell
}

// CellOption is a modifier applied at cell registration.
type CellOption func(*cellConfig)

// WithTag returns an option that sets a tag on a cell.
func WithTag[T any](tag Tag[T], val T) CellOption {
	return func(cfg *cellConfig) {
		cfg.tags[tag] = val
	}
}

// WithUpstream declares an initial upstream guess for a derived cell.
// The guess seeds the dependent index before the first evaluation so
// that invalidation reaches the cell even while it has never run; it is
// replaced wholesale by the recorded upstream set after each successful
// evaluation.
func WithUpstream(cells ...AnyCell) CellOption {
	return func(cfg *cellConfig) {
		cfg.upstream = append(cfg.upstream, cells...)
	}
}

// NewInput registers an input cell on the graph. The cell holds no
// value until Set is called; reading it before that fails with
// NotReadyError.
func NewInput[T any](g *Graph, opts ...CellOption) *Cell[T] {
	cfg := newCellConfig(opts)
	cell := &Cell[T]{
		kind: KindInput,
		tags: cfg.tags,
	}
	g.register(cell, nil)
	return cell
}

// NewDerived registers a derived cell on the graph. The computation is
// not run at registration; evaluation is lazy and happens on the first
// Read (or the first Read after invalidation). Upstream reads inside
// the computation must go through Use so the graph can record them.
func NewDerived[T any](g *Graph, compute func(*EvalCtx) (T, error), opts ...CellOption) *Cell[T] {
	cfg := newCellConfig(opts)
	cell := &Cell[T]{
		kind:    KindDerived,
		compute: compute,
		tags:    cfg.tags,
	}
	g.register(cell, cfg.upstream)
	return cell
}

func newCellConfig(opts []CellOption) *cellConfig {
	cfg := &cellConfig{tags: make(map[any]any)}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
