package core

import "testing"

func TestInputMaskBits(t *testing.T) {
	var m InputMask
	m = m.With(SignalShoot).With(SignalLeft)

	if !m.Has(SignalShoot) || !m.Has(SignalLeft) {
		t.Errorf("mask %b should hold Shoot and Left", m)
	}
	if m.Has(SignalBomb) {
		t.Error("mask should not hold Bomb")
	}

	m = m.Without(SignalLeft)
	if m.Has(SignalLeft) {
		t.Error("Without should clear Left")
	}
	if m.String() != "Shoot" {
		t.Errorf("String() = %q, expected %q", m.String(), "Shoot")
	}
	if InputMask(0).String() != "-" {
		t.Errorf("empty mask String() = %q", InputMask(0).String())
	}
}

func TestSignalBitsAreStable(t *testing.T) {
	// Bit positions are persisted in replays.
	if SignalUp.Bit() != 1 || SignalShoot.Bit() != 16 || SignalSpeedUp.Bit() != 512 {
		t.Errorf("signal bit layout changed: up=%d shoot=%d speedup=%d",
			SignalUp.Bit(), SignalShoot.Bit(), SignalSpeedUp.Bit())
	}
}

func TestInputStateJustPressed(t *testing.T) {
	var st InputState

	st.Advance(InputMask(0).With(SignalBomb))
	if !st.Pressed(SignalBomb) || !st.JustPressed(SignalBomb) {
		t.Fatal("first tick with Bomb held should be just-pressed")
	}

	st.Advance(InputMask(0).With(SignalBomb))
	if !st.Pressed(SignalBomb) {
		t.Error("Bomb should still be pressed")
	}
	if st.JustPressed(SignalBomb) {
		t.Error("held Bomb should not be just-pressed on the second tick")
	}

	st.Advance(0)
	if st.Pressed(SignalBomb) || st.JustPressed(SignalBomb) {
		t.Error("released Bomb should be neither pressed nor just-pressed")
	}

	st.Reset()
	if st.Mask() != 0 {
		t.Errorf("Reset should clear the mask, got %v", st.Mask())
	}
}
