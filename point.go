package octree

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Epsilon is the absolute per-axis tolerance Equal uses for floating point
// coordinates. It does not scale with coordinate magnitude.
const Epsilon = 1e-9

// Point is a coordinate plus an optional payload handle. A Point owns one
// reference to its handle; passing it by value moves that reference, Copy
// takes a new one.
type Point[T Number] struct {
	X, Y, Z T

	data *Handle
}

// NewPoint builds a point holding a new reference to data.
func NewPoint[T Number](x, y, z T, data *Handle) Point[T] {
	return Point[T]{X: x, Y: y, Z: z, data: data.Retain()}
}

// PointFromVector converts an r3.Vector to a point, truncating for integer
// instantiations.
func PointFromVector[T Number](v r3.Vector, data *Handle) Point[T] {
	return NewPoint(T(v.X), T(v.Y), T(v.Z), data)
}

func (p Point[T]) Data() *Handle {
	return p.data
}

// Value is shorthand for p.Data().Value().
func (p Point[T]) Value() interface{} {
	return p.data.Value()
}

// Copy returns a point with the same coordinates that owns its own reference
// to the handle.
func (p Point[T]) Copy() Point[T] {
	return Point[T]{X: p.X, Y: p.Y, Z: p.Z, data: p.data.Retain()}
}

// Release drops the point's reference to its handle and detaches it.
func (p *Point[T]) Release() {
	p.data.Release()
	p.data = nil
}

// Equal compares coordinates only. Float instantiations allow an absolute
// difference below Epsilon per axis.
func (p Point[T]) Equal(p2 Point[T]) bool {
	if !isFloat[T]() {
		return p.X == p2.X && p.Y == p2.Y && p.Z == p2.Z
	}

	return float64(abs(p.X-p2.X)) < Epsilon &&
		float64(abs(p.Y-p2.Y)) < Epsilon &&
		float64(abs(p.Z-p2.Z)) < Epsilon
}

func (p Point[T]) Vector() r3.Vector {
	return r3.Vector{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}

func (p Point[T]) distanceSquared(c Point[T]) T {
	dx := p.X - c.X
	dy := p.Y - c.Y
	dz := p.Z - c.Z
	return dx*dx + dy*dy + dz*dz
}

// wideDistanceSquared is distanceSquared in float64, for integer types whose
// squares would overflow.
func (p Point[T]) wideDistanceSquared(c Point[T]) float64 {
	dx := float64(p.X) - float64(c.X)
	dy := float64(p.Y) - float64(c.Y)
	dz := float64(p.Z) - float64(c.Z)
	return dx*dx + dy*dy + dz*dz
}

func (p Point[T]) String() string {
	if p.data == nil {
		return fmt.Sprintf("(%v, %v, %v)", p.X, p.Y, p.Z)
	}
	return fmt.Sprintf("(%v, %v, %v: %v)", p.X, p.Y, p.Z, p.data)
}
