package config

import (
	_ "embed"
)

//go:embed defaults/danmaku.yaml
var defaultYAML []byte

// Default returns the hardcoded default configuration.
func Default() Config {
	return Config{
		Timing: TimingConfig{
			TickRate:          60,
			RenderMultiplier:  1,
			Speed:             1,
			SpeedUpMultiplier: 4,
			Multiplex:         true,
		},
		World: WorldConfig{
			Width:      48,
			Height:     40,
			CullMargin: 4,
		},
		Layers: LayersConfig{
			BlankThreshold: 256,
			Ceiling:        16384,
		},
		Collision: CollisionConfig{
			Orthogonal: false,
		},
		Player: PlayerConfig{
			Speed:        0.6,
			FocusSpeed:   0.25,
			HitRadius:    0.3,
			GrazeRadius:  1.6,
			ItemRadius:   2.5,
			CollectLine:  12,
			InvulnFrames: 180,
			BombFrames:   120,
			ShotInterval: 4,
			ShotSpeed:    1.5,
			ShotDamage:   2,
			Shot:         "needle",
		},
		Resources: ResourceConfig{
			Life:     CounterConfig{Initial: 2, Factor: 3, Limit: 8},
			Bomb:     CounterConfig{Initial: 3, Factor: 5, Limit: 8},
			Credits:  3,
			MaxPower: 128,
		},
		Scoring: ScoringConfig{
			Graze:      500,
			ShotHit:    10,
			EnemyKill:  1000,
			PointValue: 10000,
			PowerItem:  1,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.25,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 36000, // 10 minutes at 60 ticks per second
			},
			Scaling: ScalingConfig{
				BulletSpeed: 0.4,
				BulletCount: 0.5,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
