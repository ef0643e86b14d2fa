package sim

import (
	"sync"

	"github.com/san-kum/rigid2d/internal/world"
)

// StatePool recycles capture buffers. Buffers keep their capacity, so a
// world with a stable body count stops allocating after the first capture.
type StatePool struct {
	pool sync.Pool
}

func NewStatePool() *StatePool {
	return &StatePool{
		pool: sync.Pool{
			New: func() interface{} {
				return make(State, 0, 64)
			},
		},
	}
}

func (p *StatePool) Get() State {
	return p.pool.Get().(State)[:0]
}

func (p *StatePool) Put(s State) {
	clear(s)
	p.pool.Put(s[:0])
}

// Capture fills a pooled buffer with the poses of w.
func (p *StatePool) Capture(w *world.World) State {
	return Capture(w, p.Get())
}

func (p *StatePool) GetAndCopy(src State) State {
	return append(p.Get(), src...)
}
