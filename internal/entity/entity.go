// Package entity holds the bulk containers for bullets, enemies, items and
// particles, and the base state every entity shares.
package entity

import (
	"github.com/vovakirdan/tui-danmaku/internal/collision"
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/task"
)

// Entity is anything a Layer can hold.
type Entity interface {
	Alive() bool
	Kill()
	// Tick advances the entity's own motion by one logical tick.
	Tick()
	Position() core.Vec2
	Shape() collision.Shape
	Blend() core.BlendMode
	// Draw enqueues the entity interpolated alpha of the way from its
	// previous position to its current one.
	Draw(r core.Renderer, alpha float64)
	// Tasks returns the entity's attached scripts, or nil if it has none.
	Tasks() *task.Parallel
}

// Base is the state shared by every entity kind. Embed it and override what
// differs.
type Base struct {
	Pos  core.Vec2
	Prev core.Vec2

	// Velocity as speed along an angle in degrees (0 is right, 90 is down).
	Speed      float64
	Angle      float64
	Accel      float64 // Added to Speed every tick
	AngularVel float64 // Added to Angle every tick

	Hit   collision.Shape
	Glyph rune
	Color core.Color
	Mode  core.BlendMode
	Z     int
	Age   int // Ticks since spawn

	dead  bool
	tasks *task.Parallel
}

// NewBase returns a base entity at pos.
func NewBase(pos core.Vec2, shape collision.Shape, glyph rune) Base {
	return Base{Pos: pos, Prev: pos, Hit: shape, Glyph: glyph}
}

func (b *Base) Alive() bool { return !b.dead }

// Kill marks the entity dead and kills its scripts.
func (b *Base) Kill() {
	if b.dead {
		return
	}
	b.dead = true
	if b.tasks != nil {
		b.tasks.Kill()
	}
}

// Tick applies acceleration and moves along the current velocity.
func (b *Base) Tick() {
	b.Prev = b.Pos
	b.Speed += b.Accel
	b.Angle += b.AngularVel
	if b.Speed != 0 {
		b.Pos = b.Pos.Add(core.Polar(b.Speed, b.Angle))
	}
	b.Age++
}

func (b *Base) Position() core.Vec2      { return b.Pos }
func (b *Base) Shape() collision.Shape   { return b.Hit }
func (b *Base) Blend() core.BlendMode    { return b.Mode }
func (b *Base) Tasks() *task.Parallel    { return b.tasks }
func (b *Base) Velocity() core.Vec2      { return core.Polar(b.Speed, b.Angle) }
func (b *Base) Interpolated(alpha float64) core.Vec2 {
	return b.Prev.Lerp(b.Pos, alpha)
}

// Draw enqueues the entity's glyph at its interpolated position.
func (b *Base) Draw(r core.Renderer, alpha float64) {
	r.Enqueue(core.Sprite{Pos: b.Interpolated(alpha), Glyph: b.Glyph, Color: b.Color, Z: b.Z})
}

// Teleport moves the entity without interpolating from the old position.
func (b *Base) Teleport(pos core.Vec2) {
	b.Pos = pos
	b.Prev = pos
}

// Attach binds t to the entity's lifetime and returns its attachment index.
// Attached tasks start on the next task pass.
func (b *Base) Attach(t task.Task) int {
	if b.tasks == nil {
		b.tasks = task.NewRoot()
	}
	return b.tasks.Add(task.Bind(b, t))
}

// Go attaches a coroutine script to the entity.
func (b *Base) Go(script task.Script) {
	b.Attach(task.Go(script))
}
