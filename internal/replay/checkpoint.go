package replay

import (
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/resource"
	"github.com/vovakirdan/tui-danmaku/internal/rng"
)

// Simulation is the state a checkpoint captures and restores.
type Simulation interface {
	Frame() int
	SetFrame(frame int)
	Counters() *resource.Counters
	RNG() *rng.Source
}

// EdgeInput is implemented by simulations that detect input edges against
// the previous tick's mask. The mask sampled on the checkpoint tick is
// captured so the first tick after a restore sees the same edges.
type EdgeInput interface {
	LastInput() core.InputMask
	SetLastInput(m core.InputMask)
}

// Checkpoint is a full restorable snapshot of a session.
type Checkpoint struct {
	Name     string            `msgpack:"name"`
	Frame    int               `msgpack:"frame"`
	Counters resource.Counters `msgpack:"counters"`
	RNGHi    uint64            `msgpack:"rng_hi"`
	RNGLo    uint64            `msgpack:"rng_lo"`
	Input    core.InputMask    `msgpack:"input"`
}

// Capture snapshots sim. The result shares no memory with sim.
func Capture(name string, sim Simulation) Checkpoint {
	hi, lo := sim.RNG().State()
	cp := Checkpoint{
		Name:     name,
		Frame:    sim.Frame(),
		Counters: *sim.Counters(),
		RNGHi:    hi,
		RNGLo:    lo,
	}
	if in, ok := sim.(EdgeInput); ok {
		cp.Input = in.LastInput()
	}
	return cp
}

// Apply restores every captured field into sim.
func (c Checkpoint) Apply(sim Simulation) {
	sim.SetFrame(c.Frame)
	*sim.Counters() = c.Counters
	sim.RNG().Restore(c.RNGHi, c.RNGLo)
	if in, ok := sim.(EdgeInput); ok {
		in.SetLastInput(c.Input)
	}
}
