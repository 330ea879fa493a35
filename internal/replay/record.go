package replay

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Record is a finished, persistable replay. It is never modified after
// Finish returns it.
type Record struct {
	ID          string       `msgpack:"id"`
	Name        string       `msgpack:"name"`
	CreatedAt   time.Time    `msgpack:"created_at"`
	Mode        string       `msgpack:"mode"`
	Difficulty  string       `msgpack:"difficulty"`
	Shot        string       `msgpack:"shot"`
	Stages      []string     `msgpack:"stages"`
	Seed        uint64       `msgpack:"seed"`
	Score       int64        `msgpack:"score"`
	FrameCount  int          `msgpack:"frame_count"`
	Events      []Event      `msgpack:"events"`
	Checkpoints []Checkpoint `msgpack:"checkpoints"`
}

// Meta is the descriptive part of a record supplied by the session.
type Meta struct {
	Name       string
	Mode       string
	Difficulty string
	Shot       string
	Stages     []string // Stage names in play order
	Seed       uint64
	Score      int64
	CreatedAt  time.Time // zero means now
}

// Finish snapshots the recorder and checkpoints into a new Record with a
// fresh ID. The record shares no memory with its inputs, so it can be
// handed to a background writer while the session keeps running.
func (r *Recorder) Finish(meta Meta, checkpoints []Checkpoint) *Record {
	created := meta.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return &Record{
		ID:          uuid.NewString(),
		Name:        meta.Name,
		CreatedAt:   created.UTC(),
		Mode:        meta.Mode,
		Difficulty:  meta.Difficulty,
		Shot:        meta.Shot,
		Stages:      slices.Clone(meta.Stages),
		Seed:        meta.Seed,
		Score:       meta.Score,
		FrameCount:  r.Frame(),
		Events:      r.Events(),
		Checkpoints: slices.Clone(checkpoints),
	}
}

// Marshal encodes the record with msgpack.
func (r *Record) Marshal() ([]byte, error) {
	data, err := msgpack.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("replay: encode %s: %w", r.ID, err)
	}
	return data, nil
}

// Unmarshal decodes a record produced by Marshal and checks that its events
// expand to its frame count.
func Unmarshal(data []byte) (*Record, error) {
	var r Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if _, err := Decode(r.Events, r.FrameCount); err != nil {
		return nil, fmt.Errorf("replay: decode %s: %w", r.ID, err)
	}
	return &r, nil
}

// Checkpoint returns the named checkpoint.
func (r *Record) Checkpoint(name string) (Checkpoint, bool) {
	for _, c := range r.Checkpoints {
		if c.Name == name {
			return c, true
		}
	}
	return Checkpoint{}, false
}
