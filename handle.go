package octree

import (
	"fmt"

	"go.uber.org/atomic"
)

// Handle is a reference-counted wrapper around caller-owned data attached to
// a point. The tree never inspects the value; it only retains the handle
// while a point referencing it is stored and releases it on Clear.
type Handle struct {
	value     interface{}
	refs      atomic.Int64
	released  atomic.Bool
	onRelease func(interface{})
}

// NewHandle wraps value with a single reference owned by the caller.
// onRelease, if not nil, runs once when the last reference is dropped.
func NewHandle(value interface{}, onRelease func(interface{})) *Handle {
	h := &Handle{
		value:     value,
		onRelease: onRelease,
	}
	h.refs.Store(1)
	return h
}

func (h *Handle) Value() interface{} {
	if h == nil {
		return nil
	}
	return h.value
}

// Refs returns the number of live references.
func (h *Handle) Refs() int64 {
	if h == nil {
		return 0
	}
	return h.refs.Load()
}

// Retain adds a reference and returns h for chaining. Retaining a nil handle
// is a no-op.
func (h *Handle) Retain() *Handle {
	if h == nil {
		return nil
	}
	h.refs.Inc()
	return h
}

// Release drops a reference. It returns false if the handle was already
// fully released.
func (h *Handle) Release() bool {
	if h == nil {
		return false
	}

	for {
		n := h.refs.Load()
		if n <= 0 {
			return false
		}
		if h.refs.CompareAndSwap(n, n-1) {
			if n == 1 && h.released.CompareAndSwap(false, true) && h.onRelease != nil {
				h.onRelease(h.value)
			}
			return true
		}
	}
}

func (h *Handle) String() string {
	if h == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", h.value)
}
