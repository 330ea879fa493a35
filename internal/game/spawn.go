package game

import (
	"fmt"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/vovakirdan/tui-danmaku/internal/collision"
	"github.com/vovakirdan/tui-danmaku/internal/content"
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/entity"
	"github.com/vovakirdan/tui-danmaku/internal/stage"
	"github.com/vovakirdan/tui-danmaku/internal/task"
)

// SpawnBullet adds an enemy shot using the bullet definition called name.
// Speed is scaled by the current rank. An unknown name is a configuration
// error.
func (s *Session) SpawnBullet(name string, pos core.Vec2, speed, angle float64) (*Bullet, error) {
	def, err := s.bullets.ByName(name)
	if err != nil {
		return nil, fmt.Errorf("game: spawn: %w", err)
	}
	return s.spawnBullet(def, pos, speed, angle), nil
}

func (s *Session) spawnBullet(def *content.Bullet, pos core.Vec2, speed, angle float64) *Bullet {
	b := &Bullet{Base: entity.NewBase(pos, def.Shape, def.Glyph), Def: def}
	b.Speed = s.rank.BulletSpeed(speed, s.level)
	b.Angle = angle
	b.Color = def.Color
	b.Mode = def.Blend
	b.Z = zEnemyShots
	if def.Delay != (content.Delay{Region: def.Region, Glyph: def.Glyph, Color: def.Color, Blend: def.Blend}) {
		b.Delay = spawnDelay
	}
	s.enemyShots.Add(b)
	return b
}

const spawnDelay = 8

func (s *Session) spawnPlayerShot(pos core.Vec2, angle float64) *Bullet {
	def := s.shotDef
	b := &Bullet{Base: entity.NewBase(pos, def.Shape, def.Glyph), Def: def, Damage: s.cfg.Player.ShotDamage}
	b.Speed = s.cfg.Player.ShotSpeed
	b.Angle = angle
	b.Color = def.Color
	b.Mode = def.Blend
	b.Z = zPlayerShots
	s.playerShots.Add(b)
	return b
}

// Ring fires n bullets evenly around pos, the first at offset degrees.
func (s *Session) Ring(name string, pos core.Vec2, n int, speed, offset float64) ([]*Bullet, error) {
	def, err := s.bullets.ByName(name)
	if err != nil {
		return nil, fmt.Errorf("game: ring: %w", err)
	}
	return s.ring(def, pos, n, speed, offset), nil
}

func (s *Session) ring(def *content.Bullet, pos core.Vec2, n int, speed, offset float64) []*Bullet {
	n = s.rank.BulletCount(n, s.level)
	out := make([]*Bullet, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.spawnBullet(def, pos, speed, offset+float64(i)*360/float64(n)))
	}
	return out
}

// Fan fires n bullets spread evenly across width degrees around center.
func (s *Session) Fan(name string, pos core.Vec2, n int, speed, center, width float64) ([]*Bullet, error) {
	def, err := s.bullets.ByName(name)
	if err != nil {
		return nil, fmt.Errorf("game: fan: %w", err)
	}
	return s.fan(def, pos, n, speed, center, width), nil
}

func (s *Session) fan(def *content.Bullet, pos core.Vec2, n int, speed, center, width float64) []*Bullet {
	n = s.rank.BulletCount(n, s.level)
	if n == 1 {
		return []*Bullet{s.spawnBullet(def, pos, speed, center)}
	}
	out := make([]*Bullet, 0, n)
	step := width / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, s.spawnBullet(def, pos, speed, center-width/2+float64(i)*step))
	}
	return out
}

// Aimed fires a fan of n bullets centered on the player.
func (s *Session) Aimed(name string, pos core.Vec2, n int, speed, width float64) ([]*Bullet, error) {
	return s.Fan(name, pos, n, speed, pos.AngleTo(s.player.Pos), width)
}

// SpawnEnemy implements stage.World. The enemy settles for a moment, fires
// its volleys and then leaves the playfield.
func (s *Session) SpawnEnemy(spec stage.EnemySpec) {
	e := &Enemy{
		Base:     entity.NewBase(spec.Pos, collision.Circle(enemyRadius(spec.HP)), enemyGlyph(spec.Name)),
		Name:     spec.Name,
		HP:       spec.HP,
		MaxHP:    spec.HP,
		velocity: spec.Velocity,
	}
	e.Color = core.ColorBrightMagenta
	e.Z = zEnemies
	if spec.Bullet != "" {
		def, err := s.bullets.ByName(spec.Bullet)
		if err != nil {
			panic(fmt.Errorf("game: enemy %s: %w", spec.Name, err))
		}
		e.bullet = def
	}
	s.enemies.Add(e)

	fire := func() { s.fire(e, spec) }
	if spec.Pattern == "none" || e.bullet == nil {
		fire = func() {}
	}
	e.Attach(task.NewBehavior(bt.New(bt.Sequence,
		task.Hold(task.Wait(enterDelay)),
		task.Hold(task.Repeat(spec.Volleys, func(int) task.Task {
			return task.Sequence(task.Once(fire), task.Wait(spec.Interval))
		})),
		bt.New(bt.Selector,
			task.Condition(func() bool { return e.velocity != (core.Vec2{}) }),
			task.Leaf(func() bool {
				e.velocity = core.V(0, -leaveSpeed)
				return false
			}),
		),
	)))
}

func (s *Session) fire(e *Enemy, spec stage.EnemySpec) {
	switch spec.Pattern {
	case "ring":
		s.ring(e.bullet, e.Pos, spec.Count, spec.Speed, s.rng.Angle())
	case "aimed":
		s.fan(e.bullet, e.Pos, spec.Count, spec.Speed, e.Pos.AngleTo(s.player.Pos), max(spec.Spread, 10*float64(spec.Count-1)))
	case "fan":
		s.fan(e.bullet, e.Pos, spec.Count, spec.Speed, 90, spec.Spread)
	}
}

func enemyRadius(hp int) float64 {
	if hp >= bossHP {
		return 1.5
	}
	return 0.8
}

func enemyGlyph(name string) rune {
	switch name {
	case "fairy":
		return 'w'
	case "lantern":
		return '@'
	case "tengu":
		return 'X'
	default:
		return 'M'
	}
}

// SpawnItem adds an item of kind at pos, tossed slightly upward.
func (s *Session) SpawnItem(kind ItemKind, pos core.Vec2) *Item {
	def, err := s.bullets.ByName(kind.bullet())
	if err != nil {
		panic(fmt.Errorf("game: item: %w", err))
	}
	it := &Item{Base: entity.NewBase(pos, collision.Circle(0.5), def.Glyph), Kind: kind}
	it.Color = def.Color
	it.Mode = def.Blend
	it.Z = zItems
	it.Angle = 90
	it.Speed = -0.25
	it.Accel = 0.02
	s.items.Add(it)
	return it
}

// SpawnParticle adds a decorative particle drifting in a random direction.
func (s *Session) SpawnParticle(pos core.Vec2, glyph rune, color core.Color, life int) *Particle {
	p := &Particle{Base: entity.NewBase(pos, collision.None(), glyph), Life: life}
	p.Color = color
	p.Mode = core.BlendAdd
	p.Z = zParticles
	p.Speed = s.rng.Range(0.05, 0.2)
	p.Angle = s.rng.Angle()
	s.particles.Add(p)
	return p
}
