package engine

import "sync"

// scanBuffers holds reusable scan destinations for cursors that need
// caller-supplied pointers. Scanned values are copied into row maps
// before the next row overwrites them.
type scanBuffers struct {
	vals []any
	ptrs []any
}

// prepare sizes the buffers for one row and points every destination at
// its value slot.
func (b *scanBuffers) prepare(size int) {
	if cap(b.vals) < size {
		b.vals = make([]any, size)
		b.ptrs = make([]any, size)
	} else {
		b.vals = b.vals[:size]
		b.ptrs = b.ptrs[:size]
	}
	for i := range b.vals {
		b.vals[i] = nil
		b.ptrs[i] = &b.vals[i]
	}
}

var scanPool = sync.Pool{
	New: func() any {
		return &scanBuffers{
			vals: make([]any, 0, 20),
			ptrs: make([]any, 0, 20),
		}
	},
}
