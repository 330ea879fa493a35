package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg := Default()
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded yaml diverges from Default():\n%+v\n%+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadCustomPathOverridesOnlyNamedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	doc := "timing:\n  speed: 2\nplayer:\n  shot: amulet\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Timing.Speed != 2 || cfg.Player.Shot != "amulet" {
		t.Errorf("overrides not applied: %+v %+v", cfg.Timing, cfg.Player)
	}
	if cfg.Timing.TickRate != 60 || cfg.Resources.Life.Factor != 3 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("timing: [1, 2"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("malformed yaml should fail")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("timing:\n  tick_rate: 0\nresources:\n  life: {initial: 9, factor: 3, limit: 8}\n"), 0o644)
	_, err := Load(invalid)
	if err == nil {
		t.Fatal("invalid settings should fail validation")
	}
	for _, want := range []string{"tick_rate", "resources.life.initial"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name  string
		level float64
		life  int
	}{
		{"easy", 0.0, 4},
		{"normal", 0.25, 2},
		{"hard", 0.5, 2},
		{"lunatic", 0.8, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParsePreset(tc.name)
			if err != nil {
				t.Fatal(err)
			}
			cfg := Default()
			ApplyPreset(&cfg, p)
			if cfg.Difficulty.InitialLevel != tc.level {
				t.Errorf("InitialLevel = %v, expected %v", cfg.Difficulty.InitialLevel, tc.level)
			}
			if cfg.Resources.Life.Initial != tc.life {
				t.Errorf("Life.Initial = %d, expected %d", cfg.Resources.Life.Initial, tc.life)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset config invalid: %v", err)
			}
		})
	}
	if _, err := ParsePreset("extra"); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestDifficultyLevel(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 100},
		Scaling:      ScalingConfig{BulletSpeed: 0.5, BulletCount: 1},
	}
	d := NewDifficultyManager(cfg)

	tests := []struct {
		ticks int
		want  float64
	}{
		{0, 0.2},
		{50, 0.6},
		{100, 1.0},
		{500, 1.0},
	}
	for _, tc := range tests {
		if got := d.Level(0, tc.ticks); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Level(ticks=%d) = %v, expected %v", tc.ticks, got, tc.want)
		}
	}

	if got := d.BulletSpeed(2, 1); got != 3 {
		t.Errorf("BulletSpeed(2, 1) = %v, expected 3", got)
	}
	if got := d.BulletCount(8, 1); got != 16 {
		t.Errorf("BulletCount(8, 1) = %d, expected 16", got)
	}
	if got := d.BulletCount(0, 0); got != 1 {
		t.Errorf("BulletCount(0, 0) = %d, expected 1", got)
	}

	d.SetEnabled(false)
	if got := d.Level(0, 100); got != 0.2 {
		t.Errorf("disabled Level = %v, expected initial 0.2", got)
	}
}

func TestDifficultyScoreProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 1000},
	})
	if got := d.Level(250, 9999); got != 0.25 {
		t.Errorf("Level(score=250) = %v, expected 0.25", got)
	}
}
