// Package replay records the per-tick input of a session and reproduces it.
//
// Frame numbers are 1-based: the first sampled tick is frame 1.
package replay

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-danmaku/internal/core"
)

var (
	// ErrDesync is returned when playback is asked for a frame that was
	// never recorded. Continuing would diverge from the recording.
	ErrDesync = errors.New("replay: desynchronized")
	// ErrCorrupt is returned for an event list that cannot have come from
	// Encode.
	ErrCorrupt = errors.New("replay: corrupt event list")
)

// Event is a single input transition.
type Event struct {
	Frame  int         `msgpack:"f"`
	Signal core.Signal `msgpack:"s"`
	Value  bool        `msgpack:"v"`
}

func (e Event) String() string {
	return fmt.Sprintf("(%d, %s, %v)", e.Frame, e.Signal, e.Value)
}

// Encode converts per-frame masks into the transitions between them.
// frames[0] is frame 1; every signal starts released.
func Encode(frames []core.InputMask) []Event {
	var events []Event
	var prev core.InputMask
	for i, cur := range frames {
		if cur == prev {
			continue
		}
		for s := core.Signal(0); s < core.SignalCount; s++ {
			if cur.Has(s) != prev.Has(s) {
				events = append(events, Event{Frame: i + 1, Signal: s, Value: cur.Has(s)})
			}
		}
		prev = cur
	}
	return events
}

// Decode expands an event list back into frameCount per-frame masks by
// sweeping forward and applying every event up to the current frame.
func Decode(events []Event, frameCount int) ([]core.InputMask, error) {
	if frameCount < 0 {
		return nil, fmt.Errorf("%w: negative frame count %d", ErrCorrupt, frameCount)
	}
	frames := make([]core.InputMask, frameCount)
	var cur core.InputMask
	next := 0
	for i := range frames {
		frame := i + 1
		for next < len(events) && events[next].Frame == frame {
			e := events[next]
			if e.Signal >= core.SignalCount {
				return nil, fmt.Errorf("%w: unknown signal %d at frame %d", ErrCorrupt, e.Signal, e.Frame)
			}
			if e.Value {
				cur = cur.With(e.Signal)
			} else {
				cur = cur.Without(e.Signal)
			}
			next++
		}
		if next < len(events) && events[next].Frame < frame {
			return nil, fmt.Errorf("%w: event %d out of order", ErrCorrupt, next)
		}
		frames[i] = cur
	}
	if next < len(events) {
		return nil, fmt.Errorf("%w: event %v beyond frame %d", ErrCorrupt, events[next], frameCount)
	}
	return frames, nil
}
