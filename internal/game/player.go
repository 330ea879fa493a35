package game

import (
	"math"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/task"
)

// tickPlayer moves the player, fires shots and starts bombs.
func (s *Session) tickPlayer() {
	p := s.player
	pc := s.cfg.Player
	p.Prev = p.Pos
	p.Age++
	if p.Invuln > 0 {
		p.Invuln--
	}

	p.Focused = s.input.Pressed(core.SignalFocus)
	speed := pc.Speed
	if p.Focused {
		speed = pc.FocusSpeed
	}
	var d core.Vec2
	if s.input.Pressed(core.SignalLeft) {
		d.X--
	}
	if s.input.Pressed(core.SignalRight) {
		d.X++
	}
	if s.input.Pressed(core.SignalUp) {
		d.Y--
	}
	if s.input.Pressed(core.SignalDown) {
		d.Y++
	}
	if d.X != 0 && d.Y != 0 {
		d = d.Scale(math.Sqrt2 / 2)
	}
	p.Pos = p.Pos.Add(d.Scale(speed))
	p.Pos.X = core.ClampF(p.Pos.X, 0, s.cfg.World.Width-1)
	p.Pos.Y = core.ClampF(p.Pos.Y, 0, s.cfg.World.Height-1)

	if p.cooldown > 0 {
		p.cooldown--
	}
	if s.input.Pressed(core.SignalShoot) && !s.counters.DialogActive && p.cooldown == 0 {
		s.fireShots()
		p.cooldown = pc.ShotInterval
	}

	if s.input.JustPressed(core.SignalBomb) && p.Bombing == 0 && !s.counters.DialogActive {
		s.bomb()
	}
}

// fireShots spawns one volley of player shots. Every 32 power adds a pair
// of angled shots, up to two pairs.
func (s *Session) fireShots() {
	p := s.player
	for _, dx := range []float64{-0.5, 0.5} {
		s.spawnPlayerShot(p.Pos.Add(core.V(dx, -1)), 270)
	}
	for i := 1; i <= min(s.counters.Power/32, 2); i++ {
		spread := float64(i) * 6
		s.spawnPlayerShot(p.Pos.Add(core.V(-1, -0.5)), 270-spread)
		s.spawnPlayerShot(p.Pos.Add(core.V(1, -0.5)), 270+spread)
	}
	s.effects.Play("shot", p.Pos)
}

// bomb spends a bomb. For its duration the player is invulnerable, enemy
// shots are cancelled every tick and enemies take damage once.
func (s *Session) bomb() {
	if !s.counters.Bomb.RemoveCompleted(1) {
		return
	}
	p := s.player
	frames := s.cfg.Player.BombFrames
	p.Bombing = frames
	p.Invuln = max(p.Invuln, frames)
	s.effects.Play("bomb", p.Pos)

	s.enemies.Each(func(e *Enemy) bool {
		s.damage(e, bombDamage)
		return true
	})
	p.Attach(task.Func(func(frame int) bool {
		s.cancelEnemyShots()
		p.Bombing = frames - frame - 1
		return p.Bombing > 0
	}))
}

// cancelEnemyShots turns every enemy shot into a particle.
func (s *Session) cancelEnemyShots() {
	s.enemyShots.Each(func(b *Bullet) bool {
		b.Kill()
		s.SpawnParticle(b.Pos, '.', core.ColorGray, 8)
		return true
	})
}

// die runs the hit sequence: a life is lost, or a credit is spent once no
// lives are left, or the session ends.
func (s *Session) die() {
	p := s.player
	s.effects.Play("death", p.Pos)
	s.logger.Debug("player hit", "frame", s.frame, "lives", s.counters.Life.Completed)

	switch {
	case s.counters.LoseLife():
	case s.counters.Continue():
		s.logger.Info("continue", "frame", s.frame, "credits", s.counters.Credits)
	default:
		s.gameOver = true
		s.logger.Info("game over", "frame", s.frame, "score", s.counters.Score)
		return
	}

	s.cancelEnemyShots()
	p.Invuln = s.cfg.Player.InvulnFrames
	p.Teleport(core.V(s.cfg.World.Width/2, s.cfg.World.Height-4))
}
