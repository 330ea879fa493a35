package core

import "strings"

// Signal is a logical input signal, abstracted from physical key presses.
// The numeric value is the bit index inside an InputMask and is part of the
// replay format, so new signals are only ever appended.
type Signal uint8

const (
	SignalUp      Signal = iota // Move up
	SignalDown                  // Move down
	SignalLeft                  // Move left
	SignalRight                 // Move right
	SignalShoot                 // Fire player shots
	SignalBomb                  // Use a bomb
	SignalFocus                 // Slow movement, show hitbox
	SignalPause                 // Toggle pause
	SignalSkip                  // Advance dialog
	SignalSpeedUp               // Hold to fast-forward (render side only)

	SignalCount // number of recognized signals
)

// String returns a human-readable name for the signal.
func (s Signal) String() string {
	switch s {
	case SignalUp:
		return "Up"
	case SignalDown:
		return "Down"
	case SignalLeft:
		return "Left"
	case SignalRight:
		return "Right"
	case SignalShoot:
		return "Shoot"
	case SignalBomb:
		return "Bomb"
	case SignalFocus:
		return "Focus"
	case SignalPause:
		return "Pause"
	case SignalSkip:
		return "Skip"
	case SignalSpeedUp:
		return "SpeedUp"
	default:
		return "Unknown"
	}
}

// InputMask holds one bit per Signal for a single logical tick.
type InputMask uint32

// Bit returns the mask bit for a signal.
func (s Signal) Bit() InputMask {
	return 1 << InputMask(s)
}

// Has returns true if the signal bit is set.
func (m InputMask) Has(s Signal) bool {
	return m&s.Bit() != 0
}

// With returns a copy of the mask with the signal set.
func (m InputMask) With(s Signal) InputMask {
	return m | s.Bit()
}

// Without returns a copy of the mask with the signal cleared.
func (m InputMask) Without(s Signal) InputMask {
	return m &^ s.Bit()
}

// String lists the held signals, e.g. "Left+Shoot".
func (m InputMask) String() string {
	if m == 0 {
		return "-"
	}
	var parts []string
	for s := Signal(0); s < SignalCount; s++ {
		if m.Has(s) {
			parts = append(parts, s.String())
		}
	}
	return strings.Join(parts, "+")
}

// Input is the query interface the simulation reads input through.
// During recording it is backed by live polling, during playback by the
// recorded bitmask history.
type Input interface {
	Pressed(s Signal) bool
	JustPressed(s Signal) bool
}

// InputState tracks the current and previous tick's masks.
type InputState struct {
	cur  InputMask
	prev InputMask
}

// Advance shifts the current mask to previous and stores the new sample.
func (st *InputState) Advance(m InputMask) {
	st.prev = st.cur
	st.cur = m
}

// Reset clears both masks.
func (st *InputState) Reset() {
	st.cur, st.prev = 0, 0
}

// Mask returns the mask sampled for the current tick.
func (st *InputState) Mask() InputMask {
	return st.cur
}

// Pressed reports whether the signal is held this tick.
func (st *InputState) Pressed(s Signal) bool {
	return st.cur.Has(s)
}

// JustPressed reports whether the signal went down this tick.
func (st *InputState) JustPressed(s Signal) bool {
	return st.cur.Has(s) && !st.prev.Has(s)
}

var _ Input = (*InputState)(nil)
