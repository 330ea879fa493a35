package replay

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/tui-danmaku/internal/core"
)

// Recorder is the in-memory input history of a session being played.
type Recorder struct {
	frames []core.InputMask
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Sample appends the mask for the tick about to run and returns its frame
// number. It must be called every tick, paused ticks included.
func (r *Recorder) Sample(m core.InputMask) int {
	r.frames = append(r.frames, m)
	return len(r.frames)
}

// Frame returns the number of ticks sampled so far.
func (r *Recorder) Frame() int { return len(r.frames) }

// Frames returns a copy of the history.
func (r *Recorder) Frames() []core.InputMask {
	return slices.Clone(r.frames)
}

// Truncate drops every frame after frame, used when a session resumes from
// a checkpoint and records over the abandoned future.
func (r *Recorder) Truncate(frame int) {
	if frame < 0 {
		frame = 0
	}
	if frame < len(r.frames) {
		r.frames = r.frames[:frame]
	}
}

// Events returns the history encoded as transitions.
func (r *Recorder) Events() []Event {
	return Encode(r.frames)
}

// Playback serves a recorded history tick by tick.
type Playback struct {
	frames []core.InputMask
	pos    int
}

// NewPlayback decodes the events of rec.
func NewPlayback(rec *Record) (*Playback, error) {
	frames, err := Decode(rec.Events, rec.FrameCount)
	if err != nil {
		return nil, fmt.Errorf("replay: load %q: %w", rec.Name, err)
	}
	return &Playback{frames: frames}, nil
}

// PlaybackOf serves frames directly.
func PlaybackOf(frames []core.InputMask) *Playback {
	return &Playback{frames: slices.Clone(frames)}
}

// Mask returns the mask recorded for frame (1-based).
func (p *Playback) Mask(frame int) (core.InputMask, error) {
	if frame < 1 || frame > len(p.frames) {
		return 0, fmt.Errorf("%w: frame %d requested, %d recorded", ErrDesync, frame, len(p.frames))
	}
	return p.frames[frame-1], nil
}

// Next returns the mask for the next frame and its frame number.
func (p *Playback) Next() (core.InputMask, int, error) {
	m, err := p.Mask(p.pos + 1)
	if err != nil {
		return 0, p.pos + 1, err
	}
	p.pos++
	return m, p.pos, nil
}

// Seek positions playback so that Next returns frame+1.
func (p *Playback) Seek(frame int) {
	p.pos = max(frame, 0)
}

// Frame returns the last frame served.
func (p *Playback) Frame() int { return p.pos }

// Len returns the number of recorded frames.
func (p *Playback) Len() int { return len(p.frames) }

// Done reports whether every recorded frame has been served.
func (p *Playback) Done() bool { return p.pos >= len(p.frames) }
