package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/scene"
	"github.com/san-kum/rigid2d/internal/world"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func newModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	return *NewModel(scene.NewRegistry(), cfg, nil)
}

func TestMenuNavigation(t *testing.T) {
	m := newModel(t)
	if m.scenes[m.cursor] != config.DefaultScene {
		t.Fatalf("cursor should start on %s, got %s", config.DefaultScene, m.scenes[m.cursor])
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("expected cursor 1, got %d", m.cursor)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor should stop at 0, got %d", m.cursor)
	}

	if !strings.Contains(m.View(), "r i g i d 2 d") {
		t.Error("menu view missing title")
	}
}

func TestMenuQuit(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit from the menu")
	}
}

func TestConfigEditing(t *testing.T) {
	m := newModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateConfig {
		t.Fatalf("expected config state, got %v", m.state)
	}
	if len(m.paramNames) < 2 || m.paramNames[0] != "dt" || m.paramNames[1] != "duration" {
		t.Fatalf("unexpected params %v", m.paramNames)
	}

	m = send(t, m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyBackspace},
		runes("4"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if m.cfg.Duration != 4 {
		t.Errorf("expected duration 4, got %v", m.cfg.Duration)
	}
	if m.base.Duration == 4 {
		t.Error("editing must not touch the base config")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateMenu {
		t.Errorf("esc should return to the menu, got %v", m.state)
	}
}

func TestSimLifecycle(t *testing.T) {
	m := newModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("s"))
	if m.state != stateSim || m.world == nil {
		t.Fatalf("expected running sim, state %v", m.state)
	}

	m = send(t, m, tickMsg(time.Now()), tickMsg(time.Now()))
	if m.world.Time() <= 0 {
		t.Error("ticks should advance the world")
	}
	if len(m.history) == 0 {
		t.Error("energy history should be recorded")
	}
	if v := m.View(); !strings.Contains(v, "bodies") || !strings.Contains(v, "running") {
		t.Errorf("sim view missing status:\n%s", v)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.paused {
		t.Fatal("space should pause")
	}
	before := m.world.Time()
	m = send(t, m, tickMsg(time.Now()))
	if m.world.Time() != before {
		t.Error("paused sim must not advance on tick")
	}
	m = send(t, m, runes("n"))
	if m.world.Time() <= before {
		t.Error("n should single step while paused")
	}

	m = send(t, m, runes("r"))
	if m.world.Time() != 0 || m.paused {
		t.Error("r should rebuild the scene and resume")
	}

	m = send(t, m, runes("q"))
	if m.state != stateMenu || m.world != nil {
		t.Error("q should drop the world and return to the menu")
	}
}

func TestSimStopsAtDuration(t *testing.T) {
	m := newModel(t)
	m.cfg.Duration = 0.05
	m.base.Duration = 0.05
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("s"))
	for range 10 {
		m = send(t, m, tickMsg(time.Now()))
	}
	if !m.paused {
		t.Error("sim should pause once duration is reached")
	}
	if m.world.Time() > 0.05+m.cfg.Dt+1e-9 {
		t.Errorf("world ran past duration: %v", m.world.Time())
	}
}

func TestKickAll(t *testing.T) {
	m := newModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("s"), runes("k"))
	for _, b := range m.world.Bodies() {
		if b.IsDynamic() && b.Velocity()[1] < kickSpeed-1e-9 {
			t.Errorf("body %d not kicked: %v", b.ID, b.Velocity())
		}
	}
}

func TestSpeedControls(t *testing.T) {
	m := newModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("s"), runes("+"), runes("+"))
	if m.speed != 4 {
		t.Errorf("expected speed 4, got %v", m.speed)
	}
	m = send(t, m, runes("0"))
	if m.speed != 1 {
		t.Errorf("expected speed reset, got %v", m.speed)
	}
}

func TestLiveRendererThrottles(t *testing.T) {
	w, err := world.New(world.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "drop", 10)
	clock := time.Unix(0, 0)
	r.now = func() time.Time { return clock }

	r.OnStep(w, 1)
	first := out.Len()
	if first == 0 || !strings.Contains(out.String(), "drop") {
		t.Fatal("first step should draw a frame")
	}

	clock = clock.Add(10 * time.Millisecond)
	r.OnStep(w, 2)
	if out.Len() != first {
		t.Error("frame inside the throttle window should be skipped")
	}

	clock = clock.Add(100 * time.Millisecond)
	r.OnStep(w, 3)
	if out.Len() == first {
		t.Error("frame after the throttle window should draw")
	}
}
