package broadphase

import (
	"math/rand"
	"sort"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

func circleBody(t *testing.T, mass float64, pos vec.Vec2, r float64) *body.Body {
	t.Helper()
	b, err := body.New(body.Options{Mass: mass, Position: pos})
	if err != nil {
		t.Fatal(err)
	}
	c, err := shape.NewCircle(r)
	if err != nil {
		t.Fatal(err)
	}
	b.AddShape(c, vec.Zero, 0)
	return b
}

type idPair struct{ a, b int }

func pairSet(pairs []Pair) []idPair {
	out := make([]idPair, 0, len(pairs))
	for _, p := range pairs {
		a, b := p.A.ID, p.B.ID
		if a > b {
			a, b = b, a
		}
		out = append(out, idPair{a, b})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].a != out[j].a {
			return out[i].a < out[j].a
		}
		return out[i].b < out[j].b
	})
	return out
}

func TestNaiveAndSAPAgree(t *testing.T) {
	g := NewWithT(t)
	rng := rand.New(rand.NewSource(7))

	var bodies []*body.Body
	for i := 0; i < 60; i++ {
		mass := 1.0
		if i%10 == 0 {
			mass = 0
		}
		pos := vec.New(rng.Float64()*20, rng.Float64()*20)
		bodies = append(bodies, circleBody(t, mass, pos, 0.3+rng.Float64()))
	}

	naive := NewNaive().Pairs(bodies, nil)
	sap := NewSAP()
	g.Expect(naive).NotTo(BeEmpty())
	g.Expect(pairSet(sap.Pairs(bodies, nil))).To(Equal(pairSet(naive)))

	// Move things and check the cached order still gives the same set.
	for _, b := range bodies {
		if b.IsDynamic() {
			g.Expect(b.SetPosition(b.Position().Add(vec.New(rng.Float64()-0.5, 0)))).To(Succeed())
		}
	}
	g.Expect(pairSet(sap.Pairs(bodies, nil))).To(Equal(pairSet(NewNaive().Pairs(bodies, nil))))

	sap.Axis = 1
	g.Expect(pairSet(sap.Pairs(bodies, nil))).To(Equal(pairSet(NewNaive().Pairs(bodies, nil))))
}

func TestCanCollide(t *testing.T) {
	staticA := circleBody(t, 0, vec.Zero, 1)
	staticB := circleBody(t, 0, vec.Zero, 1)
	dynA := circleBody(t, 1, vec.Zero, 1)
	dynB := circleBody(t, 1, vec.Zero, 1)
	sleeper := circleBody(t, 1, vec.Zero, 1)
	sleeper.Sleep()
	sleeper2 := circleBody(t, 1, vec.Zero, 1)
	sleeper2.Sleep()

	filtered := circleBody(t, 1, vec.Zero, 1)
	filtered.Shapes[0].Props().CollisionGroup = 2
	filtered.Shapes[0].Props().CollisionMask = 2

	tests := []struct {
		name string
		a, b *body.Body
		want bool
	}{
		{"static pair", staticA, staticB, false},
		{"self", dynA, dynA, false},
		{"dynamic pair", dynA, dynB, true},
		{"dynamic static", dynA, staticA, true},
		{"sleeper static", sleeper, staticA, false},
		{"two sleepers", sleeper, sleeper2, false},
		{"sleeper dynamic", sleeper, dynA, true},
		{"mask rejects", filtered, dynA, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCollide(tt.a, tt.b); got != tt.want {
				t.Errorf("CanCollide = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNaiveMargin(t *testing.T) {
	a := circleBody(t, 1, vec.Zero, 1)
	b := circleBody(t, 1, vec.New(2.015, 0), 1)
	if got := NewNaive().Pairs([]*body.Body{a, b}, nil); len(got) != 1 {
		t.Errorf("pairs within margin = %d, want 1", len(got))
	}
	b2 := circleBody(t, 1, vec.New(2.5, 0), 1)
	if got := NewNaive().Pairs([]*body.Body{a, b2}, nil); len(got) != 0 {
		t.Errorf("pairs outside margin = %d, want 0", len(got))
	}
}

func TestPairsSteadyStateAllocs(t *testing.T) {
	var bodies []*body.Body
	bodies = append(bodies, circleBody(t, 0, vec.Zero, 50))
	for i := 0; i < 10; i++ {
		bodies = append(bodies, circleBody(t, 1, vec.New(float64(i)*1.5, 0), 1))
	}

	for _, bp := range []Broadphase{NewSAP(), NewNaive()} {
		t.Run(bp.Name(), func(t *testing.T) {
			result := bp.Pairs(bodies, nil)
			allocs := testing.AllocsPerRun(100, func() {
				result = bp.Pairs(bodies, result[:0])
			})
			if allocs != 0 {
				t.Errorf("allocs per call = %v, want 0", allocs)
			}
		})
	}
}

func TestSAPRemoveBody(t *testing.T) {
	g := NewWithT(t)
	a := circleBody(t, 1, vec.Zero, 1)
	b := circleBody(t, 1, vec.New(1, 0), 1)
	c := circleBody(t, 1, vec.New(2, 0), 1)

	sap := NewSAP()
	g.Expect(sap.Pairs([]*body.Body{a, b, c}, nil)).To(HaveLen(3))

	sap.RemoveBody(b)
	g.Expect(sap.sorted).To(ConsistOf(a, c))
	g.Expect(sap.sorted[:cap(sap.sorted)]).NotTo(ContainElement(b))
	g.Expect(pairSet(sap.Pairs([]*body.Body{a, c}, nil))).To(Equal([]idPair{{a.ID, c.ID}}))
}
