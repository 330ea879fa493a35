// Package config provides YAML-based simulation configuration loading and
// difficulty management.
package config

import (
	"errors"
	"fmt"
)

// Config contains all configuration for a session.
type Config struct {
	Timing     TimingConfig     `yaml:"timing"`
	World      WorldConfig      `yaml:"world"`
	Layers     LayersConfig     `yaml:"layers"`
	Collision  CollisionConfig  `yaml:"collision"`
	Player     PlayerConfig     `yaml:"player"`
	Resources  ResourceConfig   `yaml:"resources"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Stage      StageConfig      `yaml:"stage"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TimingConfig defines the tick rate and the render multiplexing.
type TimingConfig struct {
	TickRate          int  `yaml:"tick_rate"`           // Logical ticks per second at speed 1
	RenderMultiplier  int  `yaml:"render_multiplier"`   // Render callbacks per logical tick at speed 1
	Speed             int  `yaml:"speed"`               // Player-selected speed multiplier
	SpeedUpMultiplier int  `yaml:"speed_up_multiplier"` // Extra factor while speed-up is held
	Multiplex         bool `yaml:"multiplex"`           // Interpolate redraw frames
}

// WorldConfig defines the playfield in world units.
type WorldConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	CullMargin float64 `yaml:"cull_margin"` // Entities further outside than this are killed
}

// LayersConfig defines the entity layer compaction bounds.
type LayersConfig struct {
	BlankThreshold int `yaml:"blank_threshold"`
	Ceiling        int `yaml:"ceiling"`
}

// CollisionConfig selects the circle test.
type CollisionConfig struct {
	Orthogonal bool `yaml:"orthogonal"` // Compare d² against r1²+r2²
}

// PlayerConfig defines player movement, hit areas and shots.
type PlayerConfig struct {
	Speed        float64 `yaml:"speed"`
	FocusSpeed   float64 `yaml:"focus_speed"`
	HitRadius    float64 `yaml:"hit_radius"`
	GrazeRadius  float64 `yaml:"graze_radius"`
	ItemRadius   float64 `yaml:"item_radius"`
	CollectLine  float64 `yaml:"collect_line"` // Items are collected anywhere while the player is above this y
	InvulnFrames int     `yaml:"invuln_frames"`
	BombFrames   int     `yaml:"bomb_frames"`
	ShotInterval int     `yaml:"shot_interval"`
	ShotSpeed    float64 `yaml:"shot_speed"`
	ShotDamage   int     `yaml:"shot_damage"`
	Shot         string  `yaml:"shot"` // Bullet name used for player shots
}

// CounterConfig defines one two-level resource counter.
type CounterConfig struct {
	Initial int `yaml:"initial"`
	Factor  int `yaml:"factor"`
	Limit   int `yaml:"limit"`
}

// ResourceConfig defines the starting resources.
type ResourceConfig struct {
	Life     CounterConfig `yaml:"life"`
	Bomb     CounterConfig `yaml:"bomb"`
	Credits  int           `yaml:"credits"`
	MaxPower int           `yaml:"max_power"`
}

// ScoringConfig defines point awards.
type ScoringConfig struct {
	Graze      int64 `yaml:"graze"`
	ShotHit    int64 `yaml:"shot_hit"`
	EnemyKill  int64 `yaml:"enemy_kill"`
	PointValue int64 `yaml:"point_value"` // Initial value of a point item
	PowerItem  int   `yaml:"power_item"`  // Power gained per power item
}

// StageConfig selects the stage script.
type StageConfig struct {
	Path string `yaml:"path"` // Empty means the mode's built-in stage
}

// DifficultyConfig defines the rank progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how rank increases over a session.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max rank is reached
}

// ScalingConfig defines the magnitude of rank changes.
type ScalingConfig struct {
	BulletSpeed float64 `yaml:"bullet_speed"` // Multiplier added to bullet speed at max rank
	BulletCount float64 `yaml:"bullet_count"` // Multiplier added to pattern density at max rank
}

// Preset represents a named difficulty level.
type Preset string

const (
	PresetEasy    Preset = "easy"
	PresetNormal  Preset = "normal"
	PresetHard    Preset = "hard"
	PresetLunatic Preset = "lunatic"
)

// Presets lists the difficulty presets in increasing order.
var Presets = []Preset{PresetEasy, PresetNormal, PresetHard, PresetLunatic}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset Preset) float64 {
	switch preset {
	case PresetEasy:
		return 0.0
	case PresetNormal:
		return 0.25
	case PresetHard:
		return 0.5
	case PresetLunatic:
		return 0.8
	default:
		return 0.0
	}
}

// ParsePreset resolves a difficulty name.
func ParsePreset(name string) (Preset, error) {
	for _, p := range Presets {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q", name)
}

// ApplyPreset modifies the config for a difficulty preset.
func ApplyPreset(cfg *Config, preset Preset) {
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	switch preset {
	case PresetEasy:
		cfg.Resources.Life.Initial = 4
		cfg.Resources.Bomb.Initial = 3
		cfg.Difficulty.Scaling.BulletSpeed = 0.2
	case PresetHard:
		cfg.Resources.Life.Initial = 2
		cfg.Difficulty.Scaling.BulletSpeed = 0.6
	case PresetLunatic:
		cfg.Resources.Life.Initial = 2
		cfg.Resources.Bomb.Initial = 2
		cfg.Difficulty.Scaling.BulletSpeed = 0.8
		cfg.Difficulty.Scaling.BulletCount = 1.0
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Timing.TickRate > 0, "timing.tick_rate must be positive, got %d", c.Timing.TickRate)
	check(c.Timing.RenderMultiplier > 0, "timing.render_multiplier must be positive, got %d", c.Timing.RenderMultiplier)
	check(c.Timing.Speed > 0, "timing.speed must be positive, got %d", c.Timing.Speed)
	check(c.Timing.SpeedUpMultiplier > 0, "timing.speed_up_multiplier must be positive, got %d", c.Timing.SpeedUpMultiplier)
	check(c.World.Width > 0 && c.World.Height > 0, "world size must be positive, got %vx%v", c.World.Width, c.World.Height)
	check(c.Layers.BlankThreshold > 0, "layers.blank_threshold must be positive, got %d", c.Layers.BlankThreshold)
	check(c.Layers.Ceiling > 0, "layers.ceiling must be positive, got %d", c.Layers.Ceiling)
	check(c.Player.HitRadius > 0, "player.hit_radius must be positive, got %v", c.Player.HitRadius)
	check(c.Player.GrazeRadius >= c.Player.HitRadius, "player.graze_radius must not be smaller than hit_radius")
	check(c.Player.ShotInterval > 0, "player.shot_interval must be positive, got %d", c.Player.ShotInterval)
	for _, r := range []struct {
		name string
		cc   CounterConfig
	}{{"life", c.Resources.Life}, {"bomb", c.Resources.Bomb}} {
		name, cc := r.name, r.cc
		check(cc.Factor > 0, "resources.%s.factor must be positive, got %d", name, cc.Factor)
		check(cc.Limit > 0, "resources.%s.limit must be positive, got %d", name, cc.Limit)
		check(cc.Initial >= 0 && cc.Initial <= cc.Limit, "resources.%s.initial must be within [0, %d], got %d", name, cc.Limit, cc.Initial)
	}
	switch c.Difficulty.Progression.Type {
	case "", "none", "score", "time":
	default:
		errs = append(errs, fmt.Errorf("difficulty.progression.type %q is not one of score, time, none", c.Difficulty.Progression.Type))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
