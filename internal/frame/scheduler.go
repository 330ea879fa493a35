// Package frame reconciles the logical tick rate with the render rate.
//
// The host calls Scheduler.Next once per render callback. Over one cycle of
// Target callbacks the scheduler runs exactly Effective() logical ticks, so
// the simulation advances at speed × tick rate whatever the render rate is.
package frame

// Frame is the work for one render callback.
type Frame struct {
	// CatchUp is the number of pure logical ticks to run before the drawn
	// pass. They are never drawn.
	CatchUp int
	// Tick reports whether the drawn pass also runs a logical tick. When it
	// is false the callback is a pure redraw.
	Tick bool
	// Fraction is this callback's share of the current logical tick's
	// motion. The fractions of all callbacks drawing one tick sum to 1.
	Fraction float64
	// Alpha is the interpolation position to draw at, in (0, 1]: the sum of
	// the fractions drawn so far for the current tick.
	Alpha float64
}

// Ticks returns the number of logical ticks the callback runs.
func (f Frame) Ticks() int {
	if f.Tick {
		return f.CatchUp + 1
	}
	return f.CatchUp
}

// Scheduler hands out Frames. The arrangement for a cycle is computed once
// per effective speed and cached.
type Scheduler struct {
	target    int
	speed     int
	speedUp   int
	held      bool
	multiplex bool

	arrangement []Frame
	active      int
	pos         int
	rebuilds    int
}

// New returns a scheduler with target render callbacks per base logical tick
// and the player-selected speed multiplier. Values below 1 are treated as 1.
func New(target, speed int) *Scheduler {
	return &Scheduler{
		target:    max(target, 1),
		speed:     max(speed, 1),
		speedUp:   2,
		multiplex: true,
	}
}

// SetSpeed sets the player-selected speed multiplier.
func (s *Scheduler) SetSpeed(n int) { s.speed = max(n, 1) }

// SetSpeedUpMultiplier sets the factor applied while speed-up is held.
func (s *Scheduler) SetSpeedUpMultiplier(n int) { s.speedUp = max(n, 1) }

// SpeedUpMultiplier returns the factor applied while speed-up is held.
func (s *Scheduler) SpeedUpMultiplier() int { return s.speedUp }

// SetSpeedUp records whether the speed-up input is held.
func (s *Scheduler) SetSpeedUp(held bool) { s.held = held }

// SetMultiplex turns sub-frame interpolation on or off. Without it every
// callback runs Effective() ticks and draws fully advanced.
func (s *Scheduler) SetMultiplex(on bool) {
	if s.multiplex != on {
		s.multiplex = on
		s.active = 0
	}
}

// Target returns the number of render callbacks per base logical tick.
func (s *Scheduler) Target() int { return s.target }

// Effective returns the speed multiplier in force, speed-up included.
func (s *Scheduler) Effective() int {
	if s.held {
		return s.speed * s.speedUp
	}
	return s.speed
}

// CanPause reports whether the last drawn tick's interpolation is complete.
// Pausing mid-interpolation would leave the picture ahead of or behind the
// logical state.
func (s *Scheduler) CanPause() bool {
	return s.boundary()
}

func (s *Scheduler) boundary() bool {
	return s.arrangement == nil || s.arrangement[s.pos].Tick
}

// Rebuilds returns how many times the arrangement has been computed.
func (s *Scheduler) Rebuilds() int { return s.rebuilds }

// Next returns the work for the next render callback. A speed change takes
// effect at the next tick boundary so a tick's fractions are never split
// across two arrangements.
func (s *Scheduler) Next() Frame {
	if s.boundary() && s.Effective() != s.active {
		s.rebuild()
	}
	f := s.arrangement[s.pos]
	s.pos = (s.pos + 1) % len(s.arrangement)
	return f
}

// Reset restarts the cycle at its first callback.
func (s *Scheduler) Reset() {
	s.arrangement = nil
	s.active = 0
	s.pos = 0
}

func (s *Scheduler) rebuild() {
	s.active = s.Effective()
	s.pos = 0
	s.rebuilds++
	if !s.multiplex {
		s.arrangement = []Frame{{CatchUp: s.active - 1, Tick: true, Fraction: 1, Alpha: 1}}
		return
	}
	s.arrangement = Arrange(s.target, s.active)
}

// spaced reports whether slot i of n is one of the k evenly spread slots.
func spaced(i, k, n int) bool {
	return (i*k)%n < k
}

// Arrange computes one cycle of target callbacks running speed logical ticks.
//
// With target >= speed the ticks are spread evenly over the callbacks; each
// tick is drawn by the callback that runs it and by the pure redraws that
// follow it. With target < speed every callback runs at least one tick, the
// remainder is spread evenly, and each callback draws once fully advanced.
func Arrange(target, speed int) []Frame {
	target = max(target, 1)
	speed = max(speed, 1)
	frames := make([]Frame, target)

	if target < speed {
		base := speed / target
		rem := speed % target
		for i := range frames {
			n := base
			if rem > 0 && spaced(i, rem, target) {
				n++
			}
			frames[i] = Frame{CatchUp: n - 1, Tick: true, Fraction: 1, Alpha: 1}
		}
		return frames
	}

	var starts []int
	for i := 0; i < target; i++ {
		if spaced(i, speed, target) {
			starts = append(starts, i)
		}
	}
	for g, start := range starts {
		end := target
		if g+1 < len(starts) {
			end = starts[g+1]
		}
		k := end - start
		share := 1 / float64(k)
		// The ticking callback takes the complement so the group sums to 1.
		first := 1 - float64(k-1)*share
		frames[start] = Frame{Tick: true, Fraction: first, Alpha: first}
		alpha := first
		for j := start + 1; j < end; j++ {
			alpha += share
			if j == end-1 {
				alpha = 1
			}
			frames[j] = Frame{Fraction: share, Alpha: alpha}
		}
	}
	return frames
}
