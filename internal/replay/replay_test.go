package replay

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/resource"
	"github.com/vovakirdan/tui-danmaku/internal/rng"
)

func TestEncodeThreeFrameScenario(t *testing.T) {
	held := core.Signal(2).Bit()
	frames := []core.InputMask{held, held, 0}

	events := Encode(frames)
	require.Equal(t, []Event{
		{Frame: 1, Signal: 2, Value: true},
		{Frame: 3, Signal: 2, Value: false},
	}, events)

	decoded, err := Decode(events, len(frames))
	require.NoError(t, err)
	require.Equal(t, frames, decoded)
}

func TestEncodeSkipsSteadyFrames(t *testing.T) {
	shoot := core.SignalShoot.Bit()
	frames := make([]core.InputMask, 1000)
	for i := range frames {
		frames[i] = shoot
	}
	require.Len(t, Encode(frames), 1)
	require.Empty(t, Encode(make([]core.InputMask, 50)))
}

func TestRoundTripRandomHistories(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	all := core.InputMask(1)<<core.SignalCount - 1

	for trial := 0; trial < 100; trial++ {
		frames := make([]core.InputMask, 1+r.IntN(300))
		var cur core.InputMask
		for i := range frames {
			if r.IntN(4) == 0 {
				cur = core.InputMask(r.Uint32()) & all
			}
			frames[i] = cur
		}

		decoded, err := Decode(Encode(frames), len(frames))
		require.NoError(t, err)
		require.Equal(t, frames, decoded, "trial %d", trial)
	}
}

func TestDecodeRejectsCorruptEvents(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		frames int
	}{
		{"event past the end", []Event{{Frame: 4, Signal: 1, Value: true}}, 3},
		{"frame zero", []Event{{Frame: 0, Signal: 1, Value: true}}, 3},
		{"out of order", []Event{{Frame: 2, Signal: 1, Value: true}, {Frame: 1, Signal: 0, Value: true}}, 3},
		{"unknown signal", []Event{{Frame: 1, Signal: core.SignalCount, Value: true}}, 3},
		{"negative count", nil, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.events, tc.frames)
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestRecorderSamplesEveryTick(t *testing.T) {
	rec := NewRecorder()
	require.Equal(t, 1, rec.Sample(0))
	require.Equal(t, 2, rec.Sample(core.SignalPause.Bit()))
	require.Equal(t, 3, rec.Sample(0))
	require.Equal(t, 3, rec.Frame())

	rec.Truncate(1)
	require.Equal(t, 1, rec.Frame())
	rec.Truncate(10)
	require.Equal(t, 1, rec.Frame())
}

func TestPlaybackDesync(t *testing.T) {
	p := PlaybackOf([]core.InputMask{1, 2})

	m, frame, err := p.Next()
	require.NoError(t, err)
	require.Equal(t, core.InputMask(1), m)
	require.Equal(t, 1, frame)

	_, _, err = p.Next()
	require.NoError(t, err)
	require.True(t, p.Done())

	_, _, err = p.Next()
	require.ErrorIs(t, err, ErrDesync)
	_, err = p.Mask(0)
	require.ErrorIs(t, err, ErrDesync)
	require.Equal(t, 2, p.Frame(), "a failed read does not advance")
}

type sim struct {
	frame    int
	counters resource.Counters
	rng      *rng.Source
}

func (s *sim) Frame() int                    { return s.frame }
func (s *sim) SetFrame(f int)                { s.frame = f }
func (s *sim) Counters() *resource.Counters { return &s.counters }
func (s *sim) RNG() *rng.Source              { return s.rng }

func newSim(seed uint64) *sim {
	return &sim{
		rng: rng.New(seed),
		counters: resource.New(resource.Settings{
			Life:       resource.NewFragmentCounter(3, 8, 2),
			Bomb:       resource.NewFragmentCounter(5, 8, 3),
			PointValue: 10000,
			Credits:    3,
		}),
	}
}

func TestCheckpointRestoresEveryField(t *testing.T) {
	s := newSim(77)
	s.frame = 120
	s.counters.AddScore(4500)
	s.counters.Life.AddFragment(2)
	s.counters.Bomb.RemoveCompleted(1)
	s.counters.Power = 64
	s.counters.Graze = 31
	s.counters.PointValue = 12340
	s.counters.Credits = 2
	s.counters.Continues = 1
	s.counters.DialogActive = true
	for i := 0; i < 17; i++ {
		s.rng.Float64()
	}

	cp := Capture("stage1-boss", s)
	want := s.counters
	var draws []uint64
	for i := 0; i < 8; i++ {
		draws = append(draws, s.rng.Uint64())
	}

	// Diverge everything.
	s.frame = 999
	s.counters = resource.Counters{Score: 1}
	s.rng.Seed(1)

	cp.Apply(s)
	assert.Equal(t, 120, s.frame)
	assert.Equal(t, want, s.counters)
	for i, d := range draws {
		assert.Equal(t, d, s.rng.Uint64(), "draw %d", i)
	}
}

type edgeSim struct {
	*sim
	last core.InputMask
}

func (s *edgeSim) LastInput() core.InputMask     { return s.last }
func (s *edgeSim) SetLastInput(m core.InputMask) { s.last = m }

func TestCheckpointRestoresLastInput(t *testing.T) {
	s := &edgeSim{sim: newSim(3), last: core.SignalBomb.Bit() | core.SignalLeft.Bit()}
	s.frame = 42
	cp := Capture("held", s)
	require.Equal(t, s.last, cp.Input)

	s.last = 0
	cp.Apply(s)
	assert.Equal(t, core.SignalBomb.Bit()|core.SignalLeft.Bit(), s.last)

	data, err := (&Record{ID: "x", FrameCount: 42, Checkpoints: []Checkpoint{cp}}).Marshal()
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, cp.Input, got.Checkpoints[0].Input)
}

func TestCheckpointIsASnapshot(t *testing.T) {
	s := newSim(1)
	cp := Capture("start", s)
	s.counters.AddScore(100)
	require.Zero(t, cp.Counters.Score)
}

func TestRecordMarshalRoundTrip(t *testing.T) {
	rec := NewRecorder()
	for i := 0; i < 90; i++ {
		var m core.InputMask
		if i%10 < 4 {
			m = m.With(core.SignalShoot)
		}
		if i > 30 && i < 50 {
			m = m.With(core.SignalLeft)
		}
		rec.Sample(m)
	}
	s := newSim(5)
	cps := []Checkpoint{Capture("start", s)}
	s.frame = 60
	s.counters.AddScore(300)
	cps = append(cps, Capture("mid", s))

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := rec.Finish(Meta{
		Name: "first clear", Mode: "story", Difficulty: "normal", Shot: "needle",
		Stages: []string{"opening", "storm"}, Seed: 5, Score: 300, CreatedAt: created,
	}, cps)
	require.NotEmpty(t, record.ID)
	require.Equal(t, 90, record.FrameCount)

	cps[1].Name = "mutated"
	rec.Sample(0)
	require.Equal(t, "mid", record.Checkpoints[1].Name, "Finish snapshots its inputs")
	require.Equal(t, 90, record.FrameCount)

	data, err := record.Marshal()
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Name, got.Name)
	assert.True(t, record.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, record.Mode, got.Mode)
	assert.Equal(t, record.Difficulty, got.Difficulty)
	assert.Equal(t, record.Shot, got.Shot)
	assert.Equal(t, []string{"opening", "storm"}, got.Stages)
	assert.Equal(t, record.Seed, got.Seed)
	assert.Equal(t, record.Score, got.Score)
	assert.Equal(t, record.Events, got.Events)
	assert.Equal(t, record.Checkpoints, got.Checkpoints)

	mid, ok := got.Checkpoint("mid")
	require.True(t, ok)
	assert.Equal(t, int64(300), mid.Counters.Score)

	p, err := NewPlayback(got)
	require.NoError(t, err)
	require.Equal(t, 90, p.Len())
	for i, want := range rec.Frames()[:90] {
		m, err := p.Mask(i + 1)
		require.NoError(t, err)
		require.Equal(t, want, m)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := Unmarshal([]byte{0xc1, 0x00})
	require.Error(t, err)

	bad := &Record{ID: "x", FrameCount: 1, Events: []Event{{Frame: 5, Signal: 0, Value: true}}}
	data, err := bad.Marshal()
	require.NoError(t, err)
	_, err = Unmarshal(data)
	require.True(t, errors.Is(err, ErrCorrupt))
}
