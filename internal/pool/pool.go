package pool

// Pool is a free list of reusable objects. It is not safe for concurrent use;
// each world owns its own pools.
type Pool[T any] struct {
	free  []*T
	newFn func() *T
	reset func(*T)
}

// New creates a pool. reset may be nil; when set it runs on every released
// object before it goes back on the free list.
func New[T any](newFn func() *T, reset func(*T)) *Pool[T] {
	return &Pool[T]{newFn: newFn, reset: reset}
}

func (p *Pool[T]) Get() *T {
	if n := len(p.free); n > 0 {
		obj := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return obj
	}
	return p.newFn()
}

func (p *Pool[T]) Release(objs ...*T) {
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		if p.reset != nil {
			p.reset(obj)
		}
		p.free = append(p.free, obj)
	}
}

// Resize grows or shrinks the free list to exactly n objects. It only tunes
// allocation behaviour.
func (p *Pool[T]) Resize(n int) {
	if n < 0 {
		n = 0
	}
	for len(p.free) > n {
		p.free[len(p.free)-1] = nil
		p.free = p.free[:len(p.free)-1]
	}
	for len(p.free) < n {
		p.free = append(p.free, p.newFn())
	}
}

// Len is the number of idle objects.
func (p *Pool[T]) Len() int { return len(p.free) }
