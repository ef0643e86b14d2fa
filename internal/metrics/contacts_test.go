package metrics

import (
	"testing"

	"github.com/san-kum/rigid2d/internal/vec"
)

func TestContactsAndPenetration(t *testing.T) {
	w := newWorld(t, vec.Zero)
	addBall(t, w, 1, vec.New(0, 0))
	addBall(t, w, 1, vec.New(0.8, 0))

	contacts, depth := NewContacts(), NewPenetration()
	if err := w.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	contacts.Observe(w)
	depth.Observe(w)

	if contacts.Value() < 1 {
		t.Errorf("expected at least one contact, got %v", contacts.Value())
	}
	if d := depth.Value(); d <= 0 || d > 0.25 {
		t.Errorf("expected penetration in (0, 0.25], got %v", d)
	}

	contacts.Reset()
	depth.Reset()
	if contacts.Value() != 0 || depth.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestDepthSign(t *testing.T) {
	w := newWorld(t, vec.Zero)
	addBall(t, w, 1, vec.New(0, 0))
	addBall(t, w, 1, vec.New(0.9, 0))
	if err := w.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	for _, c := range w.ContactEquations() {
		if Depth(c) <= -0.1 {
			t.Errorf("overlapping circles reported separation %v", Depth(c))
		}
	}
}

func TestSleeping(t *testing.T) {
	w := newWorld(t, vec.Zero)
	a := addBall(t, w, 1, vec.New(0, 0))
	addBall(t, w, 1, vec.New(5, 0))

	m := NewSleeping()
	m.Observe(w)
	if m.Value() != 0 {
		t.Errorf("expected no sleepers, got %v", m.Value())
	}

	a.Sleep()
	m.Reset()
	m.Observe(w)
	if m.Value() != 0.5 {
		t.Errorf("expected half asleep, got %v", m.Value())
	}
}

func TestDefaultNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 metrics, got %d", len(seen))
	}
}
