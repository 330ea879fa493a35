// Package game assembles the simulation: a Session owns the entity layers,
// the player, the stage script, the counters, the RNG and the input history
// of one play session, and advances all of them one logical tick at a time.
package game

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-danmaku/internal/collision"
	"github.com/vovakirdan/tui-danmaku/internal/config"
	"github.com/vovakirdan/tui-danmaku/internal/content"
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/entity"
	"github.com/vovakirdan/tui-danmaku/internal/replay"
	"github.com/vovakirdan/tui-danmaku/internal/resource"
	"github.com/vovakirdan/tui-danmaku/internal/rng"
	"github.com/vovakirdan/tui-danmaku/internal/stage"
	"github.com/vovakirdan/tui-danmaku/internal/task"
)

var (
	ErrNoRecording = errors.New("game: session is a playback")
	ErrClosed      = errors.New("game: session is closed")
)

const (
	bossHP        = 100
	bombDamage    = 40
	itemFallSpeed = 0.3
	enterDelay    = 20
	leaveSpeed    = 0.25
)

// Layer z-order.
const (
	zParticles = iota
	zItems
	zEnemies
	zPlayer
	zPlayerShots
	zEnemyShots
)

// Options configures a Session.
type Options struct {
	Config     config.Config
	Mode       string
	Difficulty string
	Shot       string
	Stages     []*stage.Stage // Played in order
	Bullets    *content.Set   // nil means the built-in set
	Seed       uint64
	HighScore  int64
	Playback   *replay.Playback // nil records live input
	Effects    core.Effects     // nil discards cues
	Logger     *log.Logger      // nil discards logs
}

// Session is the simulation context of one play session. It is constructed
// once and handed to everything that mutates the world.
type Session struct {
	cfg        config.Config
	mode       string
	difficulty string
	shot       string
	seed       uint64
	logger     *log.Logger
	effects    core.Effects
	bullets    *content.Set
	shotDef    *content.Bullet
	collider   collision.Collider
	rank       *config.DifficultyManager
	world      core.Rect

	rng      *rng.Source
	counters resource.Counters
	frame    int
	input    core.InputState
	recorder *replay.Recorder
	playback *replay.Playback

	stages      []*stage.Stage
	stageIndex  int
	stageStart  int
	stageTask   *task.Coroutine
	root        *task.Parallel
	checkpoints []replay.Checkpoint

	player      *Player
	playerShots *entity.Layer[*Bullet]
	enemyShots  *entity.Layer[*Bullet]
	enemies     *entity.Layer[*Enemy]
	items       *entity.Layer[*Item]
	particles   *entity.Layer[*Particle]

	level    float64
	dialog   string
	paused   bool
	gameOver bool
	cleared  bool
	closed   bool
}

// New builds a session and captures a checkpoint at the start of the first
// stage. Unknown bullet names used by the stages or the shot type are
// configuration errors.
func New(opts Options) (*Session, error) {
	if len(opts.Stages) == 0 {
		return nil, fmt.Errorf("game: no stages")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	bullets := opts.Bullets
	if bullets == nil {
		var err error
		if bullets, err = content.Default(); err != nil {
			return nil, err
		}
	}
	cfg := opts.Config
	shot := opts.Shot
	if shot == "" {
		shot = cfg.Player.Shot
	}
	shotDef, err := bullets.ByName(shot)
	if err != nil {
		return nil, fmt.Errorf("game: shot type: %w", err)
	}
	for _, st := range opts.Stages {
		for _, name := range st.Bullets() {
			if _, err := bullets.ByName(name); err != nil {
				return nil, fmt.Errorf("game: stage %s: %w", st.Name, err)
			}
		}
	}
	for k := ItemPoint; k <= ItemBombPiece; k++ {
		if _, err := bullets.ByName(k.bullet()); err != nil {
			return nil, fmt.Errorf("game: items: %w", err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	effects := opts.Effects
	if effects == nil {
		effects = core.NopEffects{}
	}

	s := &Session{
		cfg:        cfg,
		mode:       opts.Mode,
		difficulty: opts.Difficulty,
		shot:       shot,
		seed:       opts.Seed,
		logger:     logger,
		effects:    effects,
		bullets:    bullets,
		shotDef:    shotDef,
		collider:   collision.Collider{Orthogonal: cfg.Collision.Orthogonal},
		rank:       config.NewDifficultyManager(cfg.Difficulty),
		world:      core.NewRect(0, 0, cfg.World.Width, cfg.World.Height),
		rng:        rng.New(opts.Seed),
		stages:     opts.Stages,
		playback:   opts.Playback,
		root:       task.NewRoot(),
		counters: resource.New(resource.Settings{
			Life:       resource.NewFragmentCounter(cfg.Resources.Life.Factor, cfg.Resources.Life.Limit, cfg.Resources.Life.Initial),
			Bomb:       resource.NewFragmentCounter(cfg.Resources.Bomb.Factor, cfg.Resources.Bomb.Limit, cfg.Resources.Bomb.Initial),
			PointValue: cfg.Scoring.PointValue,
			Credits:    cfg.Resources.Credits,
			HighScore:  opts.HighScore,
		}),
	}
	if s.playback == nil {
		s.recorder = replay.NewRecorder()
	}

	layer := func(name string, z int) entity.Options {
		return entity.Options{
			Name:           name,
			Z:              z,
			Bounds:         s.world.Inset(-cfg.World.CullMargin),
			BlankThreshold: cfg.Layers.BlankThreshold,
			Ceiling:        cfg.Layers.Ceiling,
			Logger:         logger,
		}
	}
	// Registration order is tick order.
	s.playerShots = entity.NewLayer[*Bullet](layer("player-shots", zPlayerShots))
	s.enemyShots = entity.NewLayer[*Bullet](layer("enemy-shots", zEnemyShots))
	s.enemies = entity.NewLayer[*Enemy](layer("enemies", zEnemies))
	s.items = entity.NewLayer[*Item](layer("items", zItems))
	s.particles = entity.NewLayer[*Particle](layer("particles", zParticles))

	s.startStage(0)
	s.Checkpoint(s.stages[0].Name)
	return s, nil
}

// Frame returns the number of ticks sampled so far.
func (s *Session) Frame() int { return s.frame }

// SetFrame moves the frame counter. Used when applying a checkpoint.
func (s *Session) SetFrame(frame int) { s.frame = frame }

// Counters returns the live counters.
func (s *Session) Counters() *resource.Counters { return &s.counters }

// RNG returns the session's random source. Every random decision that
// affects the simulation must draw from it.
func (s *Session) RNG() *rng.Source { return s.rng }

// Config returns the session configuration.
func (s *Session) Config() config.Config { return s.cfg }

// Player returns the player entity.
func (s *Session) Player() *Player { return s.player }

// Input returns the input state of the current tick.
func (s *Session) Input() core.Input { return &s.input }

// Root returns the free-standing script container. Scripts added here run
// every tick alongside the stage.
func (s *Session) Root() *task.Parallel { return s.root }

// Stage returns the stage being played.
func (s *Session) Stage() *stage.Stage { return s.stages[s.stageIndex] }

// Level returns the current rank between 0 and 1.
func (s *Session) Level() float64 { return s.level }

// Dialog returns the dialog line showing, or "".
func (s *Session) Dialog() string {
	if !s.counters.DialogActive {
		return ""
	}
	return s.dialog
}

// Paused reports whether the simulation is paused.
func (s *Session) Paused() bool { return s.paused }

// Seed returns the session's starting seed.
func (s *Session) Seed() uint64 { return s.seed }

// Recording reports whether the session records live input.
func (s *Session) Recording() bool { return s.recorder != nil }

// Mode returns the game mode ID the session plays.
func (s *Session) Mode() string { return s.mode }

// Difficulty returns the difficulty preset name.
func (s *Session) Difficulty() string { return s.difficulty }

// PlaybackDone reports whether a playback session has consumed every
// recorded frame.
func (s *Session) PlaybackDone() bool {
	return s.playback != nil && s.playback.Done()
}

// State summarizes the session for the platform layer.
func (s *Session) State() core.GameState {
	return core.GameState{
		Frame:    s.frame,
		Score:    s.counters.Score,
		GameOver: s.gameOver,
		Paused:   s.paused,
		Cleared:  s.cleared,
	}
}

// Counts reports the live entities per layer.
func (s *Session) Counts() (playerShots, enemyShots, enemies, items, particles int) {
	return s.playerShots.Live(), s.enemyShots.Live(), s.enemies.Live(), s.items.Live(), s.particles.Live()
}

// Tick advances the simulation by one logical tick. live is the input held
// this tick; it is ignored during playback. Input is sampled before anything
// else, including on paused ticks, so recorded frame indices never drift.
func (s *Session) Tick(live core.InputMask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			var pe *collision.PairError
			if !ok || !(errors.As(e, &pe) || errors.Is(e, content.ErrUnknownBullet)) {
				panic(r)
			}
			err = fmt.Errorf("game: frame %d: %w", s.frame, e)
		}
	}()

	if s.closed {
		return ErrClosed
	}
	if err := s.sample(live); err != nil {
		return err
	}
	if s.gameOver {
		return nil
	}
	if s.input.JustPressed(core.SignalPause) {
		s.paused = !s.paused
	}
	if s.paused {
		return nil
	}

	s.level = s.rank.Level(s.counters.Score, s.frame)
	if s.counters.DialogActive && (s.input.JustPressed(core.SignalSkip) || s.input.JustPressed(core.SignalShoot)) {
		s.counters.DialogActive = false
		s.dialog = ""
	}

	// Scripts.
	s.root.Tick()
	if s.player.Tasks() != nil {
		s.player.Tasks().Tick()
	}
	s.playerShots.TickTasks()
	s.enemyShots.TickTasks()
	s.enemies.TickTasks()
	s.items.TickTasks()
	s.particles.TickTasks()

	// Motion.
	s.tickPlayer()
	s.playerShots.Tick()
	s.enemyShots.Tick()
	s.enemies.Tick()
	s.items.Tick()
	s.particles.Tick()

	s.collide()
	s.updateCounters()
	return nil
}

func (s *Session) sample(live core.InputMask) error {
	if s.playback != nil {
		m, frame, err := s.playback.Next()
		if err != nil {
			return fmt.Errorf("game: frame %d: %w", s.frame+1, err)
		}
		s.frame = frame
		s.input.Advance(m)
		return nil
	}
	s.frame = s.recorder.Sample(live)
	s.input.Advance(live)
	return nil
}

func (s *Session) updateCounters() {
	s.counters.Life.Update()
	s.counters.Bomb.Update()

	if s.stageTask != nil && !s.stageTask.Alive() {
		s.stageTask = nil
		if s.stageIndex+1 < len(s.stages) {
			s.clearWorld()
			s.startStage(s.stageIndex + 1)
			s.Checkpoint(s.Stage().Name)
		} else {
			s.cleared = true
			s.logger.Info("stage cleared", "stage", s.Stage().Name, "frame", s.frame, "score", s.counters.Score)
		}
	}
}

// startStage resets the player and starts stage i's script.
func (s *Session) startStage(i int) {
	s.stageIndex = i
	s.stageStart = s.frame
	s.cleared = false

	if s.player != nil {
		s.player.Kill()
	}
	start := core.V(s.cfg.World.Width/2, s.cfg.World.Height-4)
	s.player = &Player{Base: entity.NewBase(start, collision.Circle(s.cfg.Player.HitRadius), 'A')}
	s.player.Color = core.ColorBrightWhite
	s.player.Z = zPlayer

	s.stageTask = task.Go(s.stages[i].Script(s))
	s.root.Add(s.stageTask)
}

func (s *Session) clearWorld() {
	s.root.Clear()
	s.stageTask = nil
	s.playerShots.Clear()
	s.enemyShots.Clear()
	s.enemies.Clear()
	s.items.Clear()
	s.particles.Clear()
	s.dialog = ""
}

// Close kills the stage script and all entities with their tasks, which
// releases their coroutines. Ticking a closed session returns ErrClosed.
// Close is idempotent.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.clearWorld()
	s.root.Kill()
	s.player.Kill()
	s.logger.Debug("session closed", "frame", s.frame)
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool { return s.closed }

// Checkpoint captures and keeps a snapshot of the session under name.
func (s *Session) Checkpoint(name string) replay.Checkpoint {
	cp := replay.Capture(name, s)
	s.checkpoints = append(s.checkpoints, cp)
	s.logger.Debug("checkpoint", "name", name, "frame", cp.Frame)
	return cp
}

// Checkpoints returns the snapshots taken so far.
func (s *Session) Checkpoints() []replay.Checkpoint {
	return append([]replay.Checkpoint(nil), s.checkpoints...)
}

// Restore rewinds the session to cp, which must name one of the session's
// stages. The world is cleared and the stage restarts. A recording session
// drops the input and checkpoints after cp; a playback session seeks to it.
func (s *Session) Restore(cp replay.Checkpoint) error {
	index := -1
	for i, st := range s.stages {
		if st.Name == cp.Name {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("game: checkpoint %q names no stage of this session", cp.Name)
	}
	if s.playback != nil {
		if cp.Frame > s.playback.Len() {
			return fmt.Errorf("game: checkpoint %q at frame %d: %w", cp.Name, cp.Frame, replay.ErrDesync)
		}
		s.playback.Seek(cp.Frame)
	} else {
		s.recorder.Truncate(cp.Frame)
		kept := s.checkpoints[:0]
		for _, c := range s.checkpoints {
			if c.Frame < cp.Frame {
				kept = append(kept, c)
			}
		}
		s.checkpoints = kept
	}

	s.clearWorld()
	cp.Apply(s)
	s.paused = false
	s.gameOver = false
	s.startStage(index)
	if s.recorder != nil {
		s.checkpoints = append(s.checkpoints, cp)
	}
	s.logger.Debug("restored checkpoint", "name", cp.Name, "frame", cp.Frame)
	return nil
}

// Finish turns the recorded input and checkpoints into a replay record.
func (s *Session) Finish(name string) (*replay.Record, error) {
	if s.recorder == nil {
		return nil, ErrNoRecording
	}
	stages := make([]string, len(s.stages))
	for i, st := range s.stages {
		stages[i] = st.Name
	}
	return s.recorder.Finish(replay.Meta{
		Name:       name,
		Mode:       s.mode,
		Difficulty: s.difficulty,
		Shot:       s.shot,
		Stages:     stages,
		Seed:       s.seed,
		Score:      s.counters.Score,
		CreatedAt:  time.Now().UTC(),
	}, s.checkpoints), nil
}

// Draw enqueues every layer and the player in z-order.
func (s *Session) Draw(r core.Renderer, alpha float64) {
	s.particles.Draw(r, alpha)
	s.items.Draw(r, alpha)
	s.enemies.Draw(r, alpha)
	r.SetBlend(core.BlendAlpha)
	s.player.Draw(r, alpha)
	s.playerShots.Draw(r, alpha)
	s.enemyShots.Draw(r, alpha)
}

// LastInput returns the mask sampled on the latest tick.
func (s *Session) LastInput() core.InputMask { return s.input.Mask() }

// SetLastInput makes m the latest sampled mask, so the next tick detects
// presses against it.
func (s *Session) SetLastInput(m core.InputMask) {
	s.input.Reset()
	s.input.Advance(m)
}

// Env implements stage.World.
func (s *Session) Env() stage.Env {
	return stage.Env{
		Frame:   s.frame - s.stageStart,
		Enemies: s.enemies.Live(),
		Bullets: s.enemyShots.Live(),
		Score:   s.counters.Score,
		Graze:   s.counters.Graze,
		Life:    s.counters.Life.Completed,
		Dialog:  s.counters.DialogActive,
	}
}

// Say implements stage.World.
func (s *Session) Say(text string) {
	s.dialog = text
	s.counters.DialogActive = true
	s.effects.Play("dialog", s.player.Pos)
}

var (
	_ replay.Simulation = (*Session)(nil)
	_ replay.EdgeInput  = (*Session)(nil)
	_ stage.World       = (*Session)(nil)
)
