// Package stage loads wave scripts and compiles them into coroutine tasks.
//
// A stage is an ordered list of waves. Each wave first waits until the stage
// has run for At ticks, then does one thing: spawn an enemy group, wait for
// an expression over the world state to hold, or show a line of dialog and
// wait until it is dismissed.
package stage

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/task"
)

//go:embed stages/*.yaml
var builtinFS embed.FS

var (
	ErrUnknownStage   = errors.New("stage: unknown stage")
	ErrUnknownPattern = errors.New("stage: unknown pattern")
)

// Patterns lists the recognized firing patterns.
var Patterns = []string{"none", "ring", "aimed", "fan"}

// Env is the world state visible to until expressions.
type Env struct {
	Frame   int   // Ticks since the stage started
	Enemies int   // Live enemies
	Bullets int   // Live enemy bullets
	Score   int64 // Current score
	Graze   int   // Graze count
	Life    int   // Whole lives left
	Dialog  bool  // A dialog line is showing
}

// Move is a constant velocity in world units per tick, angle in degrees
// (0 = right, 90 = down).
type Move struct {
	Speed float64 `yaml:"speed"`
	Angle float64 `yaml:"angle"`
}

// Wave is one step of a stage.
type Wave struct {
	At int `yaml:"at"`

	// Enemy wave.
	Enemy    string  `yaml:"enemy"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	HP       int     `yaml:"hp"`
	Pattern  string  `yaml:"pattern"`
	Bullet   string  `yaml:"bullet"`
	Count    int     `yaml:"count"`  // Bullets per volley
	Speed    float64 `yaml:"speed"`  // Bullet speed
	Spread   float64 `yaml:"spread"` // Fan width in degrees
	Interval int     `yaml:"interval"`
	Volleys  int     `yaml:"volleys"`
	Move     Move    `yaml:"move"`
	Repeat   int     `yaml:"repeat"` // Extra copies of the enemy
	Every    int     `yaml:"every"`  // Ticks between copies
	DX       float64 `yaml:"dx"`     // X offset between copies

	// Wait wave.
	Until string `yaml:"until"`

	// Dialog wave.
	Dialog string `yaml:"dialog"`
}

func (w *Wave) kind() string {
	switch {
	case w.Enemy != "":
		return "enemy"
	case w.Until != "":
		return "until"
	case w.Dialog != "":
		return "dialog"
	default:
		return ""
	}
}

// Stage is a parsed stage script.
type Stage struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Waves []Wave `yaml:"waves"`

	until map[int]*vm.Program
}

// EnemySpec describes one enemy to spawn.
type EnemySpec struct {
	Name     string
	Pos      core.Vec2
	HP       int
	Pattern  string
	Bullet   string
	Count    int
	Speed    float64
	Spread   float64 // Degrees
	Interval int
	Volleys  int
	Velocity core.Vec2
}

// World is the session side of a running stage.
type World interface {
	Env() Env
	SpawnEnemy(spec EnemySpec)
	Say(text string)
}

// Parse decodes a stage document and compiles its expressions.
func Parse(data []byte) (*Stage, error) {
	var s Stage
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("stage: parse: %w", err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("stage: missing name")
	}

	s.until = make(map[int]*vm.Program)
	for i := range s.Waves {
		w := &s.Waves[i]
		if err := s.check(i, w); err != nil {
			return nil, fmt.Errorf("stage %s: wave %d: %w", s.Name, i, err)
		}
	}
	return &s, nil
}

func (s *Stage) check(i int, w *Wave) error {
	set := 0
	for _, f := range []string{w.Enemy, w.Until, w.Dialog} {
		if f != "" {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of enemy, until, dialog must be set")
	}
	if w.At < 0 {
		return fmt.Errorf("negative at %d", w.At)
	}

	switch w.kind() {
	case "until":
		program, err := expr.Compile(w.Until, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return fmt.Errorf("until %q: %w", w.Until, err)
		}
		s.until[i] = program
	case "enemy":
		if w.Pattern == "" {
			w.Pattern = "none"
		}
		if !slices.Contains(Patterns, w.Pattern) {
			return fmt.Errorf("%w %q", ErrUnknownPattern, w.Pattern)
		}
		if w.Pattern != "none" && w.Bullet == "" {
			return fmt.Errorf("pattern %s needs a bullet", w.Pattern)
		}
		if w.HP <= 0 {
			w.HP = 1
		}
		w.Count = max(w.Count, 1)
		w.Volleys = max(w.Volleys, 1)
		w.Interval = max(w.Interval, 1)
		w.Every = max(w.Every, 0)
		w.Repeat = max(w.Repeat, 0)
	}
	return nil
}

// Bullets returns the distinct bullet names the stage fires.
func (s *Stage) Bullets() []string {
	var names []string
	for _, w := range s.Waves {
		if w.Bullet != "" && !slices.Contains(names, w.Bullet) {
			names = append(names, w.Bullet)
		}
	}
	return names
}

// Spec returns the enemy spawned by copy n of an enemy wave.
func (w *Wave) Spec(n int) EnemySpec {
	return EnemySpec{
		Name:     w.Enemy,
		Pos:      core.V(w.X+float64(n)*w.DX, w.Y),
		HP:       w.HP,
		Pattern:  w.Pattern,
		Bullet:   w.Bullet,
		Count:    w.Count,
		Speed:    w.Speed,
		Spread:   w.Spread,
		Interval: w.Interval,
		Volleys:  w.Volleys,
		Velocity: core.Polar(w.Move.Speed, w.Move.Angle),
	}
}

// Script returns the coroutine body that plays the stage against world.
// Expressions that fail at run time are treated as false.
func (s *Stage) Script(world World) task.Script {
	return func(co *task.Co) {
		for i := range s.Waves {
			w := &s.Waves[i]
			co.WaitUntil(func() bool { return co.Frame() >= w.At })

			switch w.kind() {
			case "enemy":
				for n := 0; n <= w.Repeat; n++ {
					if n > 0 {
						co.Wait(w.Every)
					}
					world.SpawnEnemy(w.Spec(n))
				}
			case "until":
				program := s.until[i]
				co.WaitUntil(func() bool {
					out, err := expr.Run(program, world.Env())
					ok, _ := out.(bool)
					return err == nil && ok
				})
			case "dialog":
				world.Say(w.Dialog)
				co.WaitUntil(func() bool { return !world.Env().Dialog })
			}
		}
	}
}

// Load reads and parses a stage file from disk.
func Load(p string) (*Stage, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("stage: read %s: %w", p, err)
	}
	return Parse(data)
}

// Builtin returns the embedded stage called name.
func Builtin(name string) (*Stage, error) {
	data, err := builtinFS.ReadFile(path.Join("stages", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownStage, name)
	}
	return Parse(data)
}

// Names returns the embedded stage names, sorted.
func Names() []string {
	entries, err := fs.ReadDir(builtinFS, "stages")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return names
}
