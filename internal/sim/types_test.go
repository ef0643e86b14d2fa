package sim

import (
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Pose(t *testing.T) {
	s := State{1, 2, 0.5, 3, 4, -0.5}
	if s.Bodies() != 2 {
		t.Fatalf("expected 2 bodies, got %d", s.Bodies())
	}
	x, y, a := s.Pose(1)
	if x != 3 || y != 4 || a != -0.5 {
		t.Errorf("Pose(1) = %v %v %v", x, y, a)
	}
}

func TestStatePool(t *testing.T) {
	pool := NewStatePool()

	s1 := pool.Get()
	if len(s1) != 0 {
		t.Errorf("pool returned non-empty state: %d", len(s1))
	}

	s1 = append(s1, 1, 2)
	pool.Put(s1)

	s2 := pool.Get()
	if len(s2) != 0 {
		t.Error("pool did not reset state")
	}
}

func TestStatePool_GetAndCopy(t *testing.T) {
	pool := NewStatePool()
	src := State{1, 2, 3}

	copy := pool.GetAndCopy(src)
	if len(copy) != 3 || copy[0] != 1 || copy[1] != 2 || copy[2] != 3 {
		t.Errorf("GetAndCopy failed: got %v", copy)
	}

	copy[0] = 99
	if src[0] == 99 {
		t.Error("GetAndCopy did not create independent copy")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("DefaultConfig has invalid Dt")
	}
	if cfg.Duration <= 0 {
		t.Error("DefaultConfig has invalid Duration")
	}
	if cfg.MaxSubSteps <= 0 {
		t.Error("DefaultConfig has invalid MaxSubSteps")
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Step: 150, Message: "test error"}
	expected := "step 150 (t=1.5000): test error"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
}
