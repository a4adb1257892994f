package octree

// Number is the set of coordinate types a tree can be instantiated with.
// Unsigned types are left out so that center-minus-radius never wraps.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

func isFloat[T Number]() bool {
	var one T = 1
	return one/2 != 0
}

func abs[T Number](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// midpoint is (a+b)/2 truncated toward zero. Integers are halved before
// adding so narrow types do not overflow.
func midpoint[T Number](a, b T) T {
	if isFloat[T]() {
		return (a + b) / 2
	}
	x, y := int64(a), int64(b)
	s, r := x/2+y/2, x%2+y%2
	q := s + r/2
	switch {
	case r == 1 && s < 0:
		q++
	case r == -1 && s > 0:
		q--
	}
	return T(q)
}
