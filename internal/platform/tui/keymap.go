package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-danmaku/internal/core"
)

// KeyMap defines the key bindings of the play screen.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Shoot   key.Binding
	Bomb    key.Binding
	Focus   key.Binding
	Pause   key.Binding
	Skip    key.Binding
	SpeedUp key.Binding
	Restart key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Shoot, k.Bomb, k.Focus, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Shoot, k.Bomb, k.Focus, k.Skip},
		{k.Pause, k.SpeedUp, k.Restart, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k", "shift+up"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j", "shift+down"),
			key.WithHelp("↓/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h", "shift+left"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l", "shift+right"),
			key.WithHelp("→/d", "right"),
		),
		Shoot: key.NewBinding(
			key.WithKeys("z", " "),
			key.WithHelp("z/space", "shoot"),
		),
		Bomb: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "bomb"),
		),
		Focus: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "focus"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p/esc", "pause"),
		),
		Skip: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "skip dialog"),
		),
		SpeedUp: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "fast-forward"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Held turns discrete terminal key presses into held input signals.
// Terminals report presses and autorepeat but never releases, so a held
// signal decays after a number of logical ticks without a new press.
type Held struct {
	hold   int
	remain [core.SignalCount]int
	latch  core.InputMask
}

// NewHeld returns a tracker that keeps a pressed signal held for hold
// logical ticks. Values below 1 are treated as 1.
func NewHeld(hold int) *Held {
	return &Held{hold: max(hold, 1)}
}

// Press marks s held for the decay window.
func (h *Held) Press(s core.Signal) {
	h.remain[s] = h.hold
}

// Pulse marks s held for exactly the next logical tick.
func (h *Held) Pulse(s core.Signal) {
	h.remain[s] = max(h.remain[s], 1)
}

// Release drops s immediately.
func (h *Held) Release(s core.Signal) {
	h.remain[s] = 0
}

// Toggle latches s on or off until toggled again.
func (h *Held) Toggle(s core.Signal) {
	h.latch ^= s.Bit()
}

// Mask returns the signals held for the next logical tick.
func (h *Held) Mask() core.InputMask {
	m := h.latch
	for s, n := range h.remain {
		if n > 0 {
			m = m.With(core.Signal(s))
		}
	}
	return m
}

// Decay records that one logical tick consumed the current mask.
func (h *Held) Decay() {
	for s, n := range h.remain {
		if n > 0 {
			h.remain[s] = n - 1
		}
	}
}

// Clear drops every held and latched signal.
func (h *Held) Clear() {
	h.remain = [core.SignalCount]int{}
	h.latch = 0
}

// Apply feeds a key message into the tracker. Pause is not applied here;
// the host injects it at a tick boundary. It reports which control key,
// if any, the message was.
func (k KeyMap) Apply(msg tea.KeyMsg, h *Held) Control {
	switch {
	case key.Matches(msg, k.Quit):
		return ControlQuit
	case key.Matches(msg, k.Restart):
		return ControlRestart
	case key.Matches(msg, k.Pause):
		return ControlPause
	}

	if key.Matches(msg, k.Focus) {
		h.Toggle(core.SignalFocus)
		return ControlNone
	}
	// Shifted arrows move focused.
	if strings.HasPrefix(msg.String(), "shift+") {
		h.Press(core.SignalFocus)
	}

	move := func(s, opposite core.Signal) {
		h.Release(opposite)
		h.Press(s)
	}
	switch {
	case key.Matches(msg, k.Up):
		move(core.SignalUp, core.SignalDown)
	case key.Matches(msg, k.Down):
		move(core.SignalDown, core.SignalUp)
	case key.Matches(msg, k.Left):
		move(core.SignalLeft, core.SignalRight)
	case key.Matches(msg, k.Right):
		move(core.SignalRight, core.SignalLeft)
	case key.Matches(msg, k.Shoot):
		h.Press(core.SignalShoot)
	case key.Matches(msg, k.Bomb):
		h.Pulse(core.SignalBomb)
	case key.Matches(msg, k.Skip):
		h.Pulse(core.SignalSkip)
	case key.Matches(msg, k.SpeedUp):
		h.Press(core.SignalSpeedUp)
	}
	return ControlNone
}

// Control is a host-level key action that never reaches the simulation.
type Control int

const (
	ControlNone Control = iota
	ControlQuit
	ControlRestart
	ControlPause
)
