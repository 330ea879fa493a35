package stage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-danmaku/internal/task"
)

type fakeWorld struct {
	env     Env
	spawned []EnemySpec
	said    []string
	frames  []int
}

func (w *fakeWorld) Env() Env { return w.env }
func (w *fakeWorld) SpawnEnemy(s EnemySpec) {
	w.spawned = append(w.spawned, s)
	w.frames = append(w.frames, w.env.Frame)
	w.env.Enemies++
}
func (w *fakeWorld) Say(text string) {
	w.said = append(w.said, text)
	w.env.Dialog = true
}

func run(t *testing.T, s *Stage, w *fakeWorld, ticks int, each func(tick int)) *task.Coroutine {
	t.Helper()
	co := task.Go(s.Script(w))
	for i := 0; i < ticks && co.Alive(); i++ {
		w.env.Frame = i
		co.Tick()
		if each != nil {
			each(i)
		}
	}
	return co
}

func TestWaveTimingAndRepeat(t *testing.T) {
	s, err := Parse([]byte(`
name: t
waves:
  - at: 3
    enemy: fairy
    x: 10
    y: 1
    pattern: ring
    bullet: ball
    repeat: 2
    every: 2
    dx: 5
    move: { speed: 1, angle: 90 }
`))
	require.NoError(t, err)

	w := &fakeWorld{}
	co := run(t, s, w, 20, nil)
	require.False(t, co.Alive(), "script finishes after the last wave")
	require.Equal(t, []int{3, 5, 7}, w.frames)
	require.InDelta(t, 20.0, w.spawned[2].Pos.X, 1e-9)
	require.InDelta(t, 1.0, w.spawned[0].Velocity.Y, 1e-9)
	require.InDelta(t, 0.0, w.spawned[0].Velocity.X, 1e-9)
	require.Equal(t, 1, w.spawned[0].HP, "hp defaults to 1")
	require.Equal(t, 1, w.spawned[0].Volleys)
}

func TestUntilExpression(t *testing.T) {
	s, err := Parse([]byte(`
name: t
waves:
  - enemy: a
  - until: "Enemies == 0 && Score >= 100"
  - enemy: b
`))
	require.NoError(t, err)

	w := &fakeWorld{}
	co := task.Go(s.Script(w))
	for i := 0; i < 5; i++ {
		require.True(t, co.Tick())
	}
	require.Len(t, w.spawned, 1)

	w.env.Enemies = 0
	require.True(t, co.Tick(), "score not reached yet")
	w.env.Score = 150
	require.False(t, co.Tick())
	require.Len(t, w.spawned, 2)
	require.Equal(t, "b", w.spawned[1].Name)
}

func TestDialogWaitsForDismissal(t *testing.T) {
	s, err := Parse([]byte(`
name: t
waves:
  - dialog: "hello"
  - enemy: a
`))
	require.NoError(t, err)

	w := &fakeWorld{}
	co := task.Go(s.Script(w))
	require.True(t, co.Tick())
	require.Equal(t, []string{"hello"}, w.said)
	require.True(t, co.Tick())
	require.Empty(t, w.spawned)

	w.env.Dialog = false
	require.False(t, co.Tick())
	require.Len(t, w.spawned, 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no name", "waves: []"},
		{"empty wave", "name: x\nwaves:\n  - at: 3\n"},
		{"two kinds", "name: x\nwaves:\n  - enemy: a\n    dialog: b\n"},
		{"bad pattern", "name: x\nwaves:\n  - enemy: a\n    pattern: spiral\n    bullet: ball\n"},
		{"pattern without bullet", "name: x\nwaves:\n  - enemy: a\n    pattern: ring\n"},
		{"bad expression", "name: x\nwaves:\n  - until: \"Enemies ==\"\n"},
		{"non-bool expression", "name: x\nwaves:\n  - until: \"Enemies + 1\"\n"},
		{"unknown field", "name: x\nwaves:\n  - until: \"Nope > 1\"\n"},
		{"negative at", "name: x\nwaves:\n  - at: -1\n    enemy: a\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)
		})
	}
}

func TestBuiltinStages(t *testing.T) {
	names := Names()
	require.Equal(t, []string{"opening", "storm"}, names)
	for _, name := range names {
		s, err := Builtin(name)
		require.NoError(t, err, name)
		require.Equal(t, name, s.Name)
		require.NotEmpty(t, s.Bullets())
	}

	_, err := Builtin("missing")
	require.ErrorIs(t, err, ErrUnknownStage)
}
