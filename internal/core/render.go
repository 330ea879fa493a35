package core

// Sprite is a positioned drawable handed to the rendering collaborator.
type Sprite struct {
	Pos   Vec2      // World position (already interpolated)
	Glyph rune      // Terminal glyph
	Color Color     // Tint
	Blend BlendMode // Blend mode active when enqueued
	Z     int       // Layer z-index
}

// Renderer receives drawables from the simulation.
// The simulation never blocks on or reads back from the renderer.
type Renderer interface {
	// SetBlend switches the active blend mode for subsequent sprites.
	SetBlend(b BlendMode)
	// Enqueue schedules a sprite for the next presented frame.
	Enqueue(s Sprite)
}

// Effects plays named sound or visual cues. Fire-and-forget.
type Effects interface {
	Play(name string, at Vec2)
}

// NopEffects discards every cue. Used by headless runs and tests.
type NopEffects struct{}

// Play implements Effects.
func (NopEffects) Play(string, Vec2) {}

// Queue is a Renderer that buffers sprites in submission order.
type Queue struct {
	Sprites       []Sprite
	blend         BlendMode
	BlendSwitches int // Number of SetBlend calls that changed the mode
}

// SetBlend implements Renderer.
func (q *Queue) SetBlend(b BlendMode) {
	if b != q.blend {
		q.BlendSwitches++
	}
	q.blend = b
}

// Enqueue implements Renderer.
func (q *Queue) Enqueue(s Sprite) {
	s.Blend = q.blend
	q.Sprites = append(q.Sprites, s)
}

// Reset empties the queue for the next frame, keeping capacity.
func (q *Queue) Reset() {
	q.Sprites = q.Sprites[:0]
	q.blend = BlendAlpha
	q.BlendSwitches = 0
}

var (
	_ Renderer = (*Queue)(nil)
	_ Effects  = NopEffects{}
)
