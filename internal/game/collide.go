package game

import (
	"github.com/vovakirdan/tui-danmaku/internal/collision"
	"github.com/vovakirdan/tui-danmaku/internal/core"
)

// collide runs the per-tick collision passes in a fixed order: player shots
// against enemies, enemy shots against the player, items against the
// player.
func (s *Session) collide() {
	s.playerShots.Each(func(b *Bullet) bool {
		s.enemies.Each(func(e *Enemy) bool {
			if !s.hits(b.Shape(), b.Pos, e.Hit, e.Pos) {
				return true
			}
			b.Kill()
			s.counters.AddScore(s.cfg.Scoring.ShotHit)
			s.damage(e, b.Damage)
			return false
		})
		return true
	})

	p := s.player
	hitArea := collision.Circle(s.cfg.Player.HitRadius)
	grazeArea := collision.Circle(s.cfg.Player.GrazeRadius)
	s.enemyShots.Each(func(b *Bullet) bool {
		shape := b.Shape()
		if !b.grazed && s.hits(shape, b.Pos, grazeArea, p.Pos) {
			b.grazed = true
			s.counters.AddGraze()
			s.counters.AddScore(s.cfg.Scoring.Graze)
			s.counters.PointValue += grazePointBonus
			s.effects.Play("graze", b.Pos)
		}
		if !p.Invulnerable() && s.hits(shape, b.Pos, hitArea, p.Pos) {
			b.Kill()
			s.die()
			return !s.gameOver
		}
		return true
	})

	collectAll := p.Pos.Y < s.cfg.Player.CollectLine
	itemArea := collision.Circle(s.cfg.Player.ItemRadius)
	s.items.Each(func(it *Item) bool {
		if collectAll || s.hits(it.Hit, it.Pos, itemArea, p.Pos) {
			it.Kill()
			s.collect(it.Kind)
		}
		return true
	})
}

const grazePointBonus = 10

// hits runs the coarse box test before the exact shape test.
func (s *Session) hits(a collision.Shape, pa core.Vec2, b collision.Shape, pb core.Vec2) bool {
	return collision.Near(a, pa, b, pb) && s.collider.Collide(a, pa, b, pb)
}

// damage removes hp from e and runs its death when it reaches zero.
func (s *Session) damage(e *Enemy, hp int) {
	if !e.Alive() {
		return
	}
	e.HP -= hp
	if e.HP > 0 {
		return
	}
	e.Kill()
	s.counters.AddScore(s.cfg.Scoring.EnemyKill)
	s.effects.Play("enemy-death", e.Pos)
	for i := 0; i < 4; i++ {
		s.SpawnParticle(e.Pos, '*', e.Color, 12)
	}

	if e.Boss() {
		s.SpawnItem(ItemLifePiece, e.Pos)
		s.SpawnItem(ItemBombPiece, e.Pos.Add(core.V(1, 0)))
		s.cancelEnemyShots()
	}
	drops := 1 + s.rng.IntN(3)
	for i := 0; i < drops; i++ {
		kind := ItemPoint
		if s.rng.Chance(0.4) {
			kind = ItemPower
		}
		s.SpawnItem(kind, e.Pos.Add(core.V(s.rng.Range(-1.5, 1.5), s.rng.Range(-1, 0))))
	}
}

// collect applies the effect of an item.
func (s *Session) collect(kind ItemKind) {
	switch kind {
	case ItemPoint:
		s.counters.AddScore(s.counters.PointValue)
	case ItemPower:
		s.counters.AddPower(s.cfg.Scoring.PowerItem, s.cfg.Resources.MaxPower)
	case ItemLifePiece:
		s.counters.Life.AddFragment(1)
	case ItemBombPiece:
		s.counters.Bomb.AddFragment(1)
	}
	s.effects.Play("item", s.player.Pos)
}
