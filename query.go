package octree

// Query returns every stored point contained in rng. Results are ordered
// depth first with a node's own points before its children's.
func (t *Octree[T]) Query(rng BoundingBox[T]) []*Point[T] {
	return queryRange(t.root, rng, nil)
}

// QueryBounds is Query with explicit bounds.
func (t *Octree[T]) QueryBounds(minX, minY, minZ, maxX, maxY, maxZ T) ([]*Point[T], error) {
	rng, err := NewBoundingBox(minX, minY, minZ, maxX, maxY, maxZ)
	if err != nil {
		return nil, err
	}
	return t.Query(rng), nil
}

// QueryRadius returns every stored point whose Euclidean distance to
// (cx, cy, cz) is at most radius. A negative radius matches nothing.
func (t *Octree[T]) QueryRadius(cx, cy, cz, radius T) []*Point[T] {
	if radius < 0 {
		return nil
	}

	sp := sphere[T]{
		center: Point[T]{X: cx, Y: cy, Z: cz},
		wide:   !isFloat[T](),
	}
	if sp.wide {
		sp.wideRadiusSq = float64(radius) * float64(radius)
	} else {
		sp.radiusSq = radius * radius
	}

	root := t.root.box
	search := BoundingBox[T]{
		MinX: lowerEdge(cx, radius, root.MinX), MinY: lowerEdge(cy, radius, root.MinY), MinZ: lowerEdge(cz, radius, root.MinZ),
		MaxX: upperEdge(cx, radius, root.MaxX), MaxY: upperEdge(cy, radius, root.MaxY), MaxZ: upperEdge(cz, radius, root.MaxZ),
		valid: true,
	}

	return queryRadius(t.root, sp, search, nil)
}

// sphere is the exact accept test of a radius query. Integer coordinates
// are compared in float64 so the squares cannot overflow.
type sphere[T Number] struct {
	center       Point[T]
	radiusSq     T
	wideRadiusSq float64
	wide         bool
}

func (s sphere[T]) contains(p *Point[T]) bool {
	if s.wide {
		return p.wideDistanceSquared(s.center) <= s.wideRadiusSq
	}
	return p.distanceSquared(s.center) <= s.radiusSq
}

// lowerEdge is c-r, clamped to the tree bound when it would fall below it.
// Nothing is stored past the bound, so the clamp never loses matches and
// keeps integer arithmetic from wrapping.
func lowerEdge[T Number](c, r, bound T) T {
	if float64(c)-float64(r) < float64(bound) {
		return bound
	}
	return c - r
}

func upperEdge[T Number](c, r, bound T) T {
	if float64(c)+float64(r) > float64(bound) {
		return bound
	}
	return c + r
}

func queryRange[T Number](n *node[T], rng BoundingBox[T], result []*Point[T]) []*Point[T] {
	n.queries.Inc()
	if !n.box.Intersects(rng) {
		return result
	}

	for _, p := range n.points {
		if rng.Contains(*p) {
			result = append(result, p)
		}
	}

	if n.subdivided {
		for _, c := range n.children {
			if c != nil {
				result = queryRange(c, rng, result)
			}
		}
	}

	return result
}

// queryRadius prunes with the search cube but accepts points on distance
// alone.
func queryRadius[T Number](n *node[T], s sphere[T], search BoundingBox[T], result []*Point[T]) []*Point[T] {
	n.queries.Inc()
	if !n.box.Intersects(search) {
		return result
	}

	for _, p := range n.points {
		if s.contains(p) {
			result = append(result, p)
		}
	}

	if n.subdivided {
		for _, c := range n.children {
			if c != nil {
				result = queryRadius(c, s, search, result)
			}
		}
	}

	return result
}
