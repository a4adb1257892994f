package octree

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidBounds is returned when a box is built with max < min on any axis.
var ErrInvalidBounds = errors.New("invalid bounds")

// BoundingBox is an axis-aligned cuboid. The zero value is an invalid box
// that contains and intersects nothing.
type BoundingBox[T Number] struct {
	MinX, MinY, MinZ T
	MaxX, MaxY, MaxZ T

	valid bool
}

// NewBoundingBox builds a box from explicit bounds.
func NewBoundingBox[T Number](minX, minY, minZ, maxX, maxY, maxZ T) (BoundingBox[T], error) {
	// Written as negations so that NaN bounds are rejected as well.
	if !(maxX >= minX) || !(maxY >= minY) || !(maxZ >= minZ) {
		return BoundingBox[T]{}, errors.Wrapf(ErrInvalidBounds,
			"min (%v, %v, %v) max (%v, %v, %v)", minX, minY, minZ, maxX, maxY, maxZ)
	}

	return BoundingBox[T]{
		MinX: minX, MinY: minY, MinZ: minZ,
		MaxX: maxX, MaxY: maxY, MaxZ: maxZ,
		valid: true,
	}, nil
}

func (b BoundingBox[T]) Valid() bool {
	return b.valid
}

func (b BoundingBox[T]) Contains(p Point[T]) bool {
	return b.valid &&
		p.X >= b.MinX && p.X <= b.MaxX &&
		p.Y >= b.MinY && p.Y <= b.MaxY &&
		p.Z >= b.MinZ && p.Z <= b.MaxZ
}

// Intersects reports whether the closed intervals of both boxes overlap on
// every axis.
func (b BoundingBox[T]) Intersects(b2 BoundingBox[T]) bool {
	if !b.valid || !b2.valid {
		return false
	}

	return !(b2.MinX > b.MaxX || b2.MaxX < b.MinX ||
		b2.MinY > b.MaxY || b2.MaxY < b.MinY ||
		b2.MinZ > b.MaxZ || b2.MaxZ < b.MinZ)
}

func (b BoundingBox[T]) Center() Point[T] {
	return Point[T]{
		X: midpoint(b.MinX, b.MaxX),
		Y: midpoint(b.MinY, b.MaxY),
		Z: midpoint(b.MinZ, b.MaxZ),
	}
}

func (b BoundingBox[T]) Width() T {
	return b.MaxX - b.MinX
}

func (b BoundingBox[T]) Height() T {
	return b.MaxY - b.MinY
}

func (b BoundingBox[T]) Depth() T {
	return b.MaxZ - b.MinZ
}

func (b BoundingBox[T]) Volume() T {
	return b.Width() * b.Height() * b.Depth()
}

// ExpandToInclude grows the box to the union of itself and p. An invalid box
// collapses onto p.
func (b *BoundingBox[T]) ExpandToInclude(p Point[T]) {
	if !b.valid {
		*b = BoundingBox[T]{p.X, p.Y, p.Z, p.X, p.Y, p.Z, true}
		return
	}

	b.MinX, b.MaxX = min(b.MinX, p.X), max(b.MaxX, p.X)
	b.MinY, b.MaxY = min(b.MinY, p.Y), max(b.MaxY, p.Y)
	b.MinZ, b.MaxZ = min(b.MinZ, p.Z), max(b.MaxZ, p.Z)
}

// ExpandToIncludeBox grows the box to the union of itself and b2.
func (b *BoundingBox[T]) ExpandToIncludeBox(b2 BoundingBox[T]) {
	if !b2.valid {
		return
	}
	if !b.valid {
		*b = b2
		return
	}

	b.MinX, b.MaxX = min(b.MinX, b2.MinX), max(b.MaxX, b2.MaxX)
	b.MinY, b.MaxY = min(b.MinY, b2.MinY), max(b.MaxY, b2.MaxY)
	b.MinZ, b.MaxZ = min(b.MinZ, b2.MinZ), max(b.MaxZ, b2.MaxZ)
}

func (b BoundingBox[T]) String() string {
	if !b.valid {
		return "BoundingBox(invalid)"
	}
	return fmt.Sprintf("BoundingBox(%v, %v, %v -> %v, %v, %v)", b.MinX, b.MinY, b.MinZ, b.MaxX, b.MaxY, b.MaxZ)
}

// Octant identifies one of the eight children of a subdivided node. The
// numeric value is the routing index computed by octantOf.
type Octant int

const (
	TopLeftFront Octant = iota
	TopRightFront
	TopLeftBack
	TopRightBack
	BottomLeftFront
	BottomRightFront
	BottomLeftBack
	BottomRightBack
)

var octantNames = [8]string{
	"top-left-front", "top-right-front", "top-left-back", "top-right-back",
	"bottom-left-front", "bottom-right-front", "bottom-left-back", "bottom-right-back",
}

func (o Octant) String() string {
	if o < 0 || int(o) >= len(octantNames) {
		return fmt.Sprintf("Octant(%d)", int(o))
	}
	return octantNames[o]
}

// octantOf routes p relative to c. Ties go right on X but top and front on Y
// and Z.
func octantOf[T Number](p, c Point[T]) Octant {
	index := 0
	if p.X >= c.X {
		index |= 1
	}
	if p.Z < c.Z {
		index |= 2
	}
	if p.Y < c.Y {
		index |= 4
	}
	return Octant(index)
}

// octant returns the sub-box for o, split at the box center.
func (b BoundingBox[T]) octant(o Octant) (BoundingBox[T], error) {
	c := b.Center()

	minX, maxX := b.MinX, c.X
	if o&1 != 0 {
		minX, maxX = c.X, b.MaxX
	}
	minZ, maxZ := c.Z, b.MaxZ
	if o&2 != 0 {
		minZ, maxZ = b.MinZ, c.Z
	}
	minY, maxY := c.Y, b.MaxY
	if o&4 != 0 {
		minY, maxY = b.MinY, c.Y
	}

	return NewBoundingBox(minX, minY, minZ, maxX, maxY, maxZ)
}
