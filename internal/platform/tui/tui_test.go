package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-danmaku/internal/config"
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/game"
	"github.com/vovakirdan/tui-danmaku/internal/stage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHeldDecay(t *testing.T) {
	h := NewHeld(3)
	h.Press(core.SignalShoot)
	h.Pulse(core.SignalBomb)

	want := []core.InputMask{
		core.SignalShoot.Bit() | core.SignalBomb.Bit(),
		core.SignalShoot.Bit(),
		core.SignalShoot.Bit(),
		0,
	}
	for i, w := range want {
		if got := h.Mask(); got != w {
			t.Errorf("tick %d: mask = %v, expected %v", i, got, w)
		}
		h.Decay()
	}
}

func TestHeldToggleAndClear(t *testing.T) {
	h := NewHeld(1)
	h.Toggle(core.SignalFocus)
	for range 5 {
		h.Decay()
	}
	if !h.Mask().Has(core.SignalFocus) {
		t.Error("a latched signal should not decay")
	}
	h.Toggle(core.SignalFocus)
	if h.Mask().Has(core.SignalFocus) {
		t.Error("second toggle should release the latch")
	}

	h.Press(core.SignalLeft)
	h.Toggle(core.SignalFocus)
	h.Clear()
	if h.Mask() != 0 {
		t.Errorf("mask after Clear = %v", h.Mask())
	}
}

func TestKeyMapApply(t *testing.T) {
	tests := []struct {
		name    string
		msg     tea.KeyMsg
		control Control
		want    core.InputMask
	}{
		{"shoot", runes("z"), ControlNone, core.SignalShoot.Bit()},
		{"space shoots", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, ControlNone, core.SignalShoot.Bit()},
		{"bomb", runes("x"), ControlNone, core.SignalBomb.Bit()},
		{"arrow", tea.KeyMsg{Type: tea.KeyLeft}, ControlNone, core.SignalLeft.Bit()},
		{"shift arrow focuses", tea.KeyMsg{Type: tea.KeyShiftUp}, ControlNone, core.SignalUp.Bit() | core.SignalFocus.Bit()},
		{"focus toggle", runes("c"), ControlNone, core.SignalFocus.Bit()},
		{"skip", tea.KeyMsg{Type: tea.KeyEnter}, ControlNone, core.SignalSkip.Bit()},
		{"speed up", tea.KeyMsg{Type: tea.KeyTab}, ControlNone, core.SignalSpeedUp.Bit()},
		{"pause is host side", runes("p"), ControlPause, 0},
		{"restart", runes("r"), ControlRestart, 0},
		{"quit", tea.KeyMsg{Type: tea.KeyCtrlC}, ControlQuit, 0},
	}

	keys := DefaultKeyMap()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHeld(10)
			if got := keys.Apply(tc.msg, h); got != tc.control {
				t.Errorf("control = %v, expected %v", got, tc.control)
			}
			if got := h.Mask(); got != tc.want {
				t.Errorf("mask = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestOppositeDirectionReleases(t *testing.T) {
	keys := DefaultKeyMap()
	h := NewHeld(10)
	keys.Apply(runes("a"), h)
	keys.Apply(runes("d"), h)
	if h.Mask() != core.SignalRight.Bit() {
		t.Errorf("mask = %v, expected only Right", h.Mask())
	}
}

func TestCanvasProjection(t *testing.T) {
	c := NewCanvas(48, 40, 48, 20)
	if c.Screen().Width() != 48 || c.Screen().Height() != 20 {
		t.Fatalf("canvas = %dx%d, expected 48x20", c.Screen().Width(), c.Screen().Height())
	}

	tests := []struct {
		pos  core.Vec2
		x, y int
	}{
		{core.V(0, 0), 0, 0},
		{core.V(47.9, 39.9), 47, 19},
		{core.V(24, 20), 24, 10},
		{core.V(-0.5, 3), -1, 1},
	}
	for _, tc := range tests {
		if x, y := c.Cell(tc.pos); x != tc.x || y != tc.y {
			t.Errorf("Cell(%v) = (%d, %d), expected (%d, %d)", tc.pos, x, y, tc.x, tc.y)
		}
	}

	// Narrow terminals keep the aspect.
	c.Resize(24, 100)
	if c.Screen().Width() != 24 || c.Screen().Height() != 10 {
		t.Errorf("resized canvas = %dx%d, expected 24x10", c.Screen().Width(), c.Screen().Height())
	}
}

func TestCanvasBlend(t *testing.T) {
	c := NewCanvas(10, 10, 10, 5)

	c.SetBlend(core.BlendMultiply)
	c.Enqueue(core.Sprite{Pos: core.V(1, 0), Glyph: 'o', Color: core.ColorRed})
	if got := c.Screen().GetCell(1, 0); got.Rune != ' ' {
		t.Errorf("multiply on an empty cell drew %q", got.Rune)
	}

	c.SetBlend(core.BlendAdd)
	c.Enqueue(core.Sprite{Pos: core.V(1, 0), Glyph: 'o', Color: core.ColorRed})
	if got := c.Screen().GetCell(1, 0); got.Rune != 'o' || got.Color != core.ColorBrightRed {
		t.Errorf("additive cell = %+v", got)
	}

	c.SetBlend(core.BlendMultiply)
	c.Enqueue(core.Sprite{Pos: core.V(1, 0), Glyph: 'x', Color: core.ColorBlue})
	if got := c.Screen().GetCell(1, 0); got.Rune != 'o' || got.Color != core.ColorGray {
		t.Errorf("multiplied cell = %+v", got)
	}

	c.Clear()
	if got := c.Screen().GetCell(1, 0); got.Rune != ' ' {
		t.Errorf("cell after Clear = %+v", got)
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(Options{
		NewSession: func() (*game.Session, error) {
			opening, err := stage.Builtin("opening")
			if err != nil {
				return nil, err
			}
			return game.New(game.Options{
				Config:     config.Default(),
				Mode:       "story",
				Difficulty: "normal",
				Shot:       "needle",
				Stages:     []*stage.Stage{opening},
				Seed:       1,
			})
		},
		Width:  100,
		Height: 30,
	})
	if err != nil {
		t.Fatalf("NewModel() error: %v", err)
	}
	return m
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(TickMsg(time.Now()))
	return next.(Model)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTicksOncePerRenderCallback(t *testing.T) {
	m := newTestModel(t)
	for range 10 {
		m = tick(t, m)
	}
	if got := m.session.Frame(); got != 10 {
		t.Errorf("frame after 10 callbacks = %d", got)
	}
	if !strings.Contains(m.View(), "Score") {
		t.Error("view is missing the HUD")
	}
}

func TestModelPauseIsDeliveredOnATick(t *testing.T) {
	m := newTestModel(t)
	m = tick(t, m)

	m = press(t, m, runes("p"))
	if m.session.Paused() {
		t.Fatal("pause must wait for the next tick")
	}
	m = tick(t, m)
	if !m.session.Paused() {
		t.Fatal("session should be paused")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view is missing the pause banner")
	}

	// Paused ticks still sample input.
	m = tick(t, m)
	if got := m.session.Frame(); got != 3 {
		t.Errorf("frame = %d, expected 3", got)
	}

	m = press(t, m, runes("p"))
	m = tick(t, m)
	if m.session.Paused() {
		t.Error("second pause should resume")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if next.(Model).View() != "" {
		t.Error("quitting model should render nothing")
	}
	if !m.session.Closed() {
		t.Error("quitting should close the session")
	}
}

func TestModelRestartClosesPreviousSession(t *testing.T) {
	m := newTestModel(t)
	m = tick(t, m)
	old := m.session

	m.finished = true
	m = press(t, m, runes("r"))
	if m.session == old {
		t.Fatal("restart should build a new session")
	}
	if !old.Closed() {
		t.Error("restart should close the previous session")
	}
	if m.session.Closed() || m.finished {
		t.Error("the new session should be running")
	}
}

func TestLiveSessionsCloseAll(t *testing.T) {
	live := &liveSessions{}
	build := func() (*game.Session, error) {
		return newTestModel(t).session, nil
	}

	first, err := live.track(build())
	if err != nil {
		t.Fatal(err)
	}
	first.Close()
	second, _ := live.track(build())
	if len(live.list) != 1 {
		t.Errorf("tracked = %d, expected closed sessions to be dropped", len(live.list))
	}
	if _, err := live.track(nil, errors.New("boom")); err == nil {
		t.Error("track should pass errors through")
	}

	live.closeAll()
	if !second.Closed() {
		t.Error("closeAll should close every open session")
	}
}
