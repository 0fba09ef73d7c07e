// Package mempool provides size-classed slice pools that cut allocations on
// the per-image hot path.
package mempool

import (
	"sync"
)

// minClass is the smallest bucket; larger requests round up to a multiple of it.
const minClass = 1024

// sizeClass rounds n up to the next multiple of minClass to reduce churn.
func sizeClass(n int) int {
	if n <= minClass {
		return minClass
	}
	r := (n + minClass - 1) / minClass
	return r * minClass
}

// Pool hands out []T buffers grouped by size class. The zero value is ready to use.
type Pool[T any] struct {
	pools sync.Map // key: size class (int), value: *sync.Pool
}

func (p *Pool[T]) class(cls int) *sync.Pool {
	pAny, _ := p.pools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]T, cls) }})
	sp, _ := pAny.(*sync.Pool)
	return sp
}

// Get retrieves a buffer of length n. Contents are not zeroed; callers must
// overwrite every element they read. Return it via Put when done.
func (p *Pool[T]) Get(n int) []T {
	cls := sizeClass(n)
	sp := p.class(cls)
	if sp == nil {
		return make([]T, n, cls)
	}
	buf, ok := sp.Get().([]T)
	if !ok || cap(buf) < cls {
		buf = make([]T, cls)
	}
	return buf[:n]
}

// Put returns a buffer to the pool. Nil slices and slices whose capacity is
// not an exact size class (i.e. not obtained from Get) are dropped.
func (p *Pool[T]) Put(buf []T) {
	c := cap(buf)
	if c == 0 || sizeClass(c) != c {
		return
	}
	if sp := p.class(c); sp != nil {
		sp.Put(buf[:c]) //nolint:staticcheck
	}
}
