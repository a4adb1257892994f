package octree

import (
	"unsafe"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// ErrSubdivision is returned by Insert when a leaf could not build its eight
// children. The leaf is left untouched.
var ErrSubdivision = errors.New("subdivision failed")

type node[T Number] struct {
	box BoundingBox[T]

	// points is only populated while the node is a leaf.
	points   []*Point[T]
	children [8]*node[T]

	depth      int
	subdivided bool

	subdivisions atomic.Int64
	queries      atomic.Int64
}

func (n *node[T]) IsLeaf() bool {
	return !n.subdivided
}

func (t *Octree[T]) createNode(box BoundingBox[T], depth int) (*node[T], error) {
	if !box.Valid() {
		return nil, errors.Wrapf(ErrInvalidBounds, "node at depth %d", depth)
	}
	return &node[T]{
		box:    box,
		points: make([]*Point[T], 0, t.capacity),
		depth:  depth,
	}, nil
}

func (t *Octree[T]) insert(n *node[T], p *Point[T]) (bool, error) {
	if !n.box.Contains(*p) {
		return false, nil
	}

	if !n.subdivided {
		if len(n.points) < t.capacity || n.depth >= t.maxDepth {
			n.points = append(n.points, p)
			return true, nil
		}

		if err := t.subdivide(n); err != nil {
			return false, err
		}
	}

	return t.insert(n.children[octantOf(*p, n.box.Center())], p)
}

// subdivide splits a full leaf into eight children and moves its points
// down. Either all eight children are attached or none are.
func (t *Octree[T]) subdivide(n *node[T]) error {
	if n.subdivided || n.depth >= t.maxDepth {
		return nil
	}

	var children [8]*node[T]
	for i := range children {
		o := Octant(i)
		box, err := n.box.octant(o)
		if err != nil {
			return errors.Wrapf(ErrSubdivision, "%s octant of %s: %v", o, n.box, err)
		}
		child, err := t.allocNode(box, n.depth+1)
		if err != nil {
			return errors.Wrapf(ErrSubdivision, "%s octant of %s: %v", o, n.box, err)
		}
		children[i] = child
	}

	// A leaf only splits when it holds exactly capacity points, so no child
	// can overflow while they are moved down.
	c := n.box.Center()
	for _, p := range n.points {
		child := children[octantOf(*p, c)]
		child.points = append(child.points, p)
	}

	n.children = children
	n.points = nil
	n.subdivided = true
	n.subdivisions.Inc()

	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithFields(log.Fields{
			"depth":  n.depth,
			"bounds": n.box.String(),
		}).Debug("Subdivided node")
	}

	return nil
}

// release drops every point handle in the subtree.
func (n *node[T]) release() {
	for _, p := range n.points {
		p.Release()
	}
	for _, c := range n.children {
		if c != nil {
			c.release()
		}
	}
}

// reset returns n to the state createNode leaves it in.
func (n *node[T]) reset(capacity int) {
	n.release()
	n.points = make([]*Point[T], 0, capacity)
	n.children = [8]*node[T]{}
	n.subdivided = false
	n.subdivisions.Store(0)
	n.queries.Store(0)
}

func (n *node[T]) size() int {
	count := len(n.points)
	for _, c := range n.children {
		if c != nil {
			count += c.size()
		}
	}
	return count
}

func (n *node[T]) maxDepth() int {
	if !n.subdivided {
		return n.depth
	}
	d := n.depth
	for _, c := range n.children {
		if c != nil {
			d = max(d, c.maxDepth())
		}
	}
	return d
}

// memoryUsage estimates the bytes held by the subtree: the node itself, the
// reserved pointer slots of its point list and the points it holds.
func (n *node[T]) memoryUsage() int {
	var p Point[T]
	total := int(unsafe.Sizeof(*n)) +
		cap(n.points)*int(unsafe.Sizeof(n)) +
		len(n.points)*int(unsafe.Sizeof(p))
	for _, c := range n.children {
		if c != nil {
			total += c.memoryUsage()
		}
	}
	return total
}

func (n *node[T]) subdivisionCount() int {
	total := int(n.subdivisions.Load())
	for _, c := range n.children {
		if c != nil {
			total += c.subdivisionCount()
		}
	}
	return total
}

func (n *node[T]) visitCount() int {
	total := int(n.queries.Load())
	for _, c := range n.children {
		if c != nil {
			total += c.visitCount()
		}
	}
	return total
}
