package render

import "sync/atomic"

// memo holds a value computed at most once effectively: racing first computations
// all run, the first stored result wins and every caller sees it
type memo[T any] struct {
	p atomic.Pointer[T]
}

func (m *memo[T]) load(compute func() (T, bool)) (T, bool) {
	if v := m.p.Load(); v != nil {
		return *v, true
	}
	v, ok := compute()
	if !ok {
		return v, false
	}
	if m.p.CompareAndSwap(nil, &v) {
		return v, true
	}
	return *m.p.Load(), true
}
