package game

import (
	"github.com/vovakirdan/tui-danmaku/internal/collision"
	"github.com/vovakirdan/tui-danmaku/internal/content"
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/entity"
)

// Bullet is a player or enemy shot.
type Bullet struct {
	entity.Base
	Def    *content.Bullet
	Damage int
	Delay  int // Ticks left in the delayed-spawn warning

	grazed bool
}

// Grazed reports whether the bullet already counted as a graze.
func (b *Bullet) Grazed() bool { return b.grazed }

// Tick holds the bullet in place while its warning is showing.
func (b *Bullet) Tick() {
	if b.Delay > 0 {
		b.Delay--
		b.Prev = b.Pos
		return
	}
	b.Base.Tick()
}

// Shape is empty during the delayed-spawn warning.
func (b *Bullet) Shape() collision.Shape {
	if b.Delay > 0 {
		return collision.None()
	}
	return b.Hit
}

func (b *Bullet) Blend() core.BlendMode {
	if b.Delay > 0 {
		return b.Def.Delay.Blend
	}
	return b.Def.Blend
}

func (b *Bullet) Draw(r core.Renderer, alpha float64) {
	glyph, color := b.Def.GlyphAt(b.Age), b.Def.Color
	if b.Delay > 0 {
		glyph, color = b.Def.Delay.Glyph, b.Def.Delay.Color
	}
	r.Enqueue(core.Sprite{Pos: b.Interpolated(alpha), Glyph: glyph, Color: color, Z: b.Z})
}

// Enemy is a scripted target with hit points.
type Enemy struct {
	entity.Base
	Name  string
	HP    int
	MaxHP int

	bullet   *content.Bullet
	velocity core.Vec2
}

// Boss reports whether the enemy is large enough to drop life pieces.
func (e *Enemy) Boss() bool { return e.MaxHP >= bossHP }

// Tick moves the enemy along its straight-line velocity.
func (e *Enemy) Tick() {
	e.Prev = e.Pos
	e.Pos = e.Pos.Add(e.velocity)
	e.Age++
}

// ItemKind is the effect of collecting an item.
type ItemKind uint8

const (
	ItemPoint ItemKind = iota
	ItemPower
	ItemLifePiece
	ItemBombPiece
)

// bullet names the content entry an item kind is drawn with.
func (k ItemKind) bullet() string {
	switch k {
	case ItemPower:
		return "power"
	case ItemLifePiece:
		return "life-piece"
	case ItemBombPiece:
		return "bomb-piece"
	default:
		return "point"
	}
}

// Item falls toward the bottom of the playfield until collected.
type Item struct {
	entity.Base
	Kind ItemKind
}

// Tick accelerates the item downward up to a terminal speed.
func (it *Item) Tick() {
	it.Base.Tick()
	it.Speed = min(it.Speed, itemFallSpeed)
}

// Particle is a decorative entity with a fixed lifetime.
type Particle struct {
	entity.Base
	Life int
}

func (p *Particle) Tick() {
	p.Base.Tick()
	if p.Age >= p.Life {
		p.Kill()
	}
}

// Player is the controlled ship. It lives outside the layers.
type Player struct {
	entity.Base
	Focused  bool
	Invuln   int // Ticks of invulnerability left
	Bombing  int // Ticks of the active bomb left
	cooldown int
}

// Invulnerable reports whether enemy shots currently pass through.
func (p *Player) Invulnerable() bool { return p.Invuln > 0 }

func (p *Player) Draw(r core.Renderer, alpha float64) {
	if p.Invuln > 0 && (p.Invuln/4)%2 == 1 {
		return
	}
	pos := p.Interpolated(alpha)
	r.Enqueue(core.Sprite{Pos: pos, Glyph: p.Glyph, Color: p.Color, Z: p.Z})
	if p.Focused {
		r.Enqueue(core.Sprite{Pos: pos.Add(core.V(0, 1)), Glyph: '·', Color: core.ColorBrightWhite, Z: p.Z})
	}
}
