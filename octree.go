// Package octree implements a point octree: a 3-D spatial index that stores
// points with optional reference-counted payloads and answers box and radius
// queries by descending only into the octants that can hold matches.
//
// A tree is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
package octree

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Octree is the tree as a whole: the root node plus the limits that govern
// subdivision.
type Octree[T Number] struct {
	root *node[T]

	capacity int
	maxDepth int

	allocNode func(box BoundingBox[T], depth int) (*node[T], error)
}

// New creates an empty tree covering bounds. Capacity and max depth default
// to DefaultCapacity and DefaultMaxDepth.
func New[T Number](bounds BoundingBox[T], opts ...Option) (*Octree[T], error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validateLimits(); err != nil {
		return nil, err
	}
	if !bounds.Valid() {
		return nil, errors.Wrap(ErrInvalidBounds, "octree bounds")
	}

	t := &Octree[T]{
		capacity: cfg.Capacity,
		maxDepth: cfg.MaxDepth,
	}
	t.allocNode = t.createNode

	root, err := t.createNode(bounds, 0)
	if err != nil {
		return nil, err
	}
	t.root = root

	return t, nil
}

func NewFromBounds[T Number](minX, minY, minZ, maxX, maxY, maxZ T, opts ...Option) (*Octree[T], error) {
	bounds, err := NewBoundingBox(minX, minY, minZ, maxX, maxY, maxZ)
	if err != nil {
		return nil, err
	}
	return New(bounds, opts...)
}

// NewFromConfig builds a float64 tree entirely from cfg, which must carry
// bounds.
func NewFromConfig(cfg Config) (*Octree[float64], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bounds, err := cfg.Bounds.Box()
	if err != nil {
		return nil, err
	}
	return New(bounds, WithConfig(cfg))
}

func (t *Octree[T]) Bounds() BoundingBox[T] {
	return t.root.box
}

func (t *Octree[T]) Capacity() int {
	return t.capacity
}

func (t *Octree[T]) MaxDepth() int {
	return t.maxDepth
}

// Insert stores a point at (x, y, z) with an optional payload. The tree takes
// its own reference to data; the caller keeps theirs. A point outside the
// tree bounds is rejected with false and no error.
func (t *Octree[T]) Insert(x, y, z T, data *Handle) (bool, error) {
	return t.InsertPoint(NewPoint(x, y, z, data))
}

// InsertPoint stores p, taking over the handle reference p owns. If p is
// not stored its reference is released.
func (t *Octree[T]) InsertPoint(p Point[T]) (bool, error) {
	stored := &p

	ok, err := t.insert(t.root, stored)
	if err != nil {
		log.WithFields(log.Fields{
			"point": stored.String(),
			"size":  t.Size(),
		}).WithError(err).Warn("Insert failed")
	}
	if !ok {
		stored.Release()
	}
	return ok, err
}

func (t *Octree[T]) Size() int {
	return t.root.size()
}

// Depth returns the deepest level any leaf has reached. A tree that never
// subdivided has depth 0.
func (t *Octree[T]) Depth() int {
	return t.root.maxDepth()
}

func (t *Octree[T]) Empty() bool {
	return t.Size() == 0
}

// Clear drops every point, releasing their handles, and returns the tree to
// its freshly constructed state. Points returned by earlier queries must not
// be used afterwards.
func (t *Octree[T]) Clear() {
	t.root.reset(t.capacity)
	log.WithField("bounds", t.root.box.String()).Debug("Cleared octree")
}

// MemoryUsage is an estimate in bytes of the memory held by the tree nodes
// and the points stored in them. Payload values are not counted.
func (t *Octree[T]) MemoryUsage() int {
	return t.root.memoryUsage()
}

// SubdivisionCount is the number of subdivisions performed since the tree was
// built or last cleared.
func (t *Octree[T]) SubdivisionCount() int {
	return t.root.subdivisionCount()
}

// QueryCount is the number of box and radius queries that traversed the tree.
func (t *Octree[T]) QueryCount() int {
	return int(t.root.queries.Load())
}

// NodeVisits is the total number of nodes all queries have visited.
func (t *Octree[T]) NodeVisits() int {
	return t.root.visitCount()
}

// NodeInfo describes one node during Walk. Points is the node's own list and
// must not be modified.
type NodeInfo[T Number] struct {
	Bounds BoundingBox[T]
	Depth  int
	Leaf   bool
	Points []*Point[T]
}

// Walk visits every node in pre-order, children in octant order. Returning
// false from fn skips the node's subtree.
func (t *Octree[T]) Walk(fn func(NodeInfo[T]) bool) {
	walk(t.root, fn)
}

func walk[T Number](n *node[T], fn func(NodeInfo[T]) bool) {
	info := NodeInfo[T]{
		Bounds: n.box,
		Depth:  n.depth,
		Leaf:   n.IsLeaf(),
		Points: n.points,
	}
	if !fn(info) {
		return
	}
	for _, c := range n.children {
		if c != nil {
			walk(c, fn)
		}
	}
}

func (t *Octree[T]) NodeCount() int {
	count := 0
	t.Walk(func(NodeInfo[T]) bool {
		count++
		return true
	})
	return count
}

func (t *Octree[T]) LeafCount() int {
	count := 0
	t.Walk(func(info NodeInfo[T]) bool {
		if info.Leaf {
			count++
		}
		return true
	})
	return count
}

// Stats is a snapshot of the tree's instrumentation.
type Stats struct {
	Size         int
	Depth        int
	Nodes        int
	Leaves       int
	Subdivisions int
	Queries      int
	NodeVisits   int
	MemoryUsage  int
}

func (t *Octree[T]) Stats() Stats {
	return Stats{
		Size:         t.Size(),
		Depth:        t.Depth(),
		Nodes:        t.NodeCount(),
		Leaves:       t.LeafCount(),
		Subdivisions: t.SubdivisionCount(),
		Queries:      t.QueryCount(),
		NodeVisits:   t.NodeVisits(),
		MemoryUsage:  t.MemoryUsage(),
	}
}

// Fields returns the stats as logrus fields.
func (s Stats) Fields() log.Fields {
	return log.Fields{
		"size":         s.Size,
		"depth":        s.Depth,
		"nodes":        s.Nodes,
		"leaves":       s.Leaves,
		"subdivisions": s.Subdivisions,
		"queries":      s.Queries,
		"node_visits":  s.NodeVisits,
		"memory_bytes": s.MemoryUsage,
	}
}
