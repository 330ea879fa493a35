package entity

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-danmaku/internal/arena"
	"github.com/vovakirdan/tui-danmaku/internal/core"
)

// Default compaction bounds.
const (
	DefaultBlankThreshold = 256
	DefaultCeiling        = 16384
)

// Options configures a Layer.
type Options struct {
	Name string
	Z    int
	// Bounds is the world region entities must overlap to stay alive.
	// A zero Rect disables the bounds check.
	Bounds         core.Rect
	BlankThreshold int
	Ceiling        int
	Logger         *log.Logger
}

// Layer is a bulk container of same-kind entities. Removal nulls a slot
// instead of shifting, so entities may be removed or added while the layer
// is being iterated. Empty slots are compacted away at the end of Tick.
type Layer[E interface {
	comparable
	Entity
}] struct {
	name      string
	z         int
	bounds    core.Rect
	threshold int
	ceiling   int
	logger    *log.Logger

	slots  arena.Slots[E]
	culled int
	forced int
}

// NewLayer returns an empty layer.
func NewLayer[E interface {
	comparable
	Entity
}](opts Options) *Layer[E] {
	if opts.BlankThreshold <= 0 {
		opts.BlankThreshold = DefaultBlankThreshold
	}
	if opts.Ceiling <= 0 {
		opts.Ceiling = DefaultCeiling
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Layer[E]{
		name:      opts.Name,
		z:         opts.Z,
		bounds:    opts.Bounds,
		threshold: opts.BlankThreshold,
		ceiling:   opts.Ceiling,
		logger:    logger,
	}
}

// Name returns the layer's name.
func (l *Layer[E]) Name() string { return l.name }

// Z returns the layer's draw order. Lower layers draw first.
func (l *Layer[E]) Z() int { return l.z }

// Add appends e to the layer.
func (l *Layer[E]) Add(e E) {
	l.slots.Add(e)
}

// Remove nulls e's slot. It reports whether e was held by the layer.
func (l *Layer[E]) Remove(e E) bool {
	return l.slots.Remove(e)
}

// Len returns the number of held entities. Entities killed since the last
// Tick are still held.
func (l *Layer[E]) Len() int { return l.slots.Len() }

// Live returns the number of held entities that are alive.
func (l *Layer[E]) Live() int {
	n := 0
	l.Each(func(E) bool {
		n++
		return true
	})
	return n
}

// Slots returns the number of storage slots, empty ones included.
func (l *Layer[E]) Slots() int { return l.slots.Cap() }

// Culled returns how many entities were killed for leaving the bounds.
func (l *Layer[E]) Culled() int { return l.culled }

// ForcedCompactions returns how many times the hard ceiling forced a
// compaction.
func (l *Layer[E]) ForcedCompactions() int { return l.forced }

// Each calls fn for every live entity in storage order until fn returns
// false. Dead entities are skipped.
func (l *Layer[E]) Each(fn func(e E) bool) {
	l.slots.Each(func(_ int, e E) bool {
		if !e.Alive() {
			return true
		}
		return fn(e)
	})
}

// TickTasks advances every live entity's scripts by one step.
func (l *Layer[E]) TickTasks() {
	l.slots.Each(func(_ int, e E) bool {
		if e.Alive() {
			if t := e.Tasks(); t != nil {
				t.Tick()
			}
		}
		return true
	})
}

// Tick advances every live entity, drops dead ones, kills entities outside
// the bounds, and compacts storage when it has too many empty slots or too
// many slots overall.
func (l *Layer[E]) Tick() {
	l.slots.Each(func(i int, e E) bool {
		if !e.Alive() {
			l.slots.Null(i)
			return true
		}
		e.Tick()
		if !e.Alive() {
			l.slots.Null(i)
			return true
		}
		if l.outside(e) {
			e.Kill()
			l.slots.Null(i)
			l.culled++
		}
		return true
	})

	switch {
	case l.slots.NeedsCompaction(l.threshold, 0):
		l.slots.Compact()
	case l.slots.Cap() > l.ceiling:
		l.forced++
		slots := l.slots.Cap()
		removed := l.slots.Compact()
		l.logger.Warn("forced compaction", "layer", l.name, "slots", slots, "removed", removed, "live", l.slots.Len())
	}
}

func (l *Layer[E]) outside(e E) bool {
	if l.bounds.W <= 0 || l.bounds.H <= 0 {
		return false
	}
	pos := e.Position()
	shape := e.Shape()
	hw, hh := shape.Extents()
	if hw == 0 && hh == 0 {
		return !l.bounds.Contains(pos)
	}
	return !l.bounds.Intersects(shape.Bounds(pos))
}

// Draw enqueues every live entity in storage order. The blend mode is only
// switched when it differs from the previous entity's.
func (l *Layer[E]) Draw(r core.Renderer, alpha float64) {
	first := true
	var cur core.BlendMode
	l.slots.Each(func(_ int, e E) bool {
		if !e.Alive() {
			return true
		}
		if b := e.Blend(); first || b != cur {
			r.SetBlend(b)
			cur = b
			first = false
		}
		e.Draw(r, alpha)
		return true
	})
}

// Clear kills every entity and empties the layer.
func (l *Layer[E]) Clear() {
	l.slots.Each(func(_ int, e E) bool {
		e.Kill()
		return true
	})
	l.slots.Reset()
}
