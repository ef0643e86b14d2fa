// Package island groups connected awake bodies and decides when a group may
// fall asleep as a whole.
package island

import (
	"slices"

	"github.com/san-kum/rigid2d/internal/body"
)

// Edge connects two bodies through a contact or a joint.
type Edge struct {
	A, B *body.Body
}

// Manager runs a union-find over the awake dynamic bodies each step. Its
// buffers are reused between calls.
type Manager struct {
	index  map[*body.Body]int
	nodes  []*body.Body
	parent []int
	rank   []int

	roots   map[int]int
	islands [][]*body.Body
	nextID  int
}

func NewManager() *Manager {
	return &Manager{index: make(map[*body.Body]int), roots: make(map[int]int)}
}

// node reports whether b takes part in island building. Static and
// kinematic bodies never merge islands and sleepers keep their old island.
func node(b *body.Body) bool {
	return b.Type == body.Dynamic && !b.IsSleeping()
}

// Split assigns every awake dynamic body a fresh IslandID and returns the
// islands in order of their first body. Island ids grow across calls so a
// sleeping island keeps an id no awake island will reuse.
func (m *Manager) Split(bodies []*body.Body, edges []Edge) [][]*body.Body {
	clear(m.index)
	m.nodes = m.nodes[:0]
	m.parent = m.parent[:0]
	m.rank = m.rank[:0]
	for _, b := range bodies {
		if !node(b) {
			if b.Type != body.Dynamic {
				b.IslandID = -1
			}
			continue
		}
		m.index[b] = len(m.nodes)
		m.nodes = append(m.nodes, b)
		m.parent = append(m.parent, len(m.parent))
		m.rank = append(m.rank, 0)
	}

	for _, e := range edges {
		i, okA := m.index[e.A]
		j, okB := m.index[e.B]
		if okA && okB {
			m.union(i, j)
		}
	}

	for i := range m.islands {
		clear(m.islands[i])
		m.islands[i] = m.islands[i][:0]
	}
	m.islands = m.islands[:0]

	clear(m.roots)
	base := m.nextID
	for i, b := range m.nodes {
		root := m.find(i)
		k, ok := m.roots[root]
		if !ok {
			k = len(m.islands)
			m.roots[root] = k
			if k < cap(m.islands) {
				m.islands = m.islands[:k+1]
			} else {
				m.islands = append(m.islands, nil)
			}
		}
		m.islands[k] = append(m.islands[k], b)
		b.IslandID = base + k
	}
	m.nextID += len(m.islands)
	return m.islands
}

func (m *Manager) find(i int) int {
	for m.parent[i] != i {
		m.parent[i] = m.parent[m.parent[i]]
		i = m.parent[i]
	}
	return i
}

func (m *Manager) union(i, j int) {
	ri, rj := m.find(i), m.find(j)
	if ri == rj {
		return
	}
	switch {
	case m.rank[ri] < m.rank[rj]:
		m.parent[ri] = rj
	case m.rank[ri] > m.rank[rj]:
		m.parent[rj] = ri
	default:
		m.parent[rj] = ri
		m.rank[ri]++
	}
}

// RemoveBody drops b from the last split. Islands left empty are dropped.
func (m *Manager) RemoveBody(b *body.Body) {
	clear(m.index)
	clear(m.nodes)
	m.nodes = m.nodes[:0]
	m.parent = m.parent[:0]
	m.rank = m.rank[:0]
	for i, isl := range m.islands {
		m.islands[i] = slices.DeleteFunc(isl, func(x *body.Body) bool { return x == b })
	}
	m.islands = slices.DeleteFunc(m.islands, func(isl []*body.Body) bool { return len(isl) == 0 })
}

// Count is the number of islands from the last Split.
func (m *Manager) Count() int { return len(m.islands) }

// Sleepy reports whether every body of the island wants to sleep.
func Sleepy(island []*body.Body) bool {
	if len(island) == 0 {
		return false
	}
	for _, b := range island {
		if !b.WantsToSleep() {
			return false
		}
	}
	return true
}

// SleepIsland puts the whole island to sleep and returns the bodies that
// changed state.
func SleepIsland(island []*body.Body, result []*body.Body) []*body.Body {
	for _, b := range island {
		if b.Sleep() {
			result = append(result, b)
		}
	}
	return result
}
