// Package content loads the bullet description file: the atlas a bullet set
// is cut from and the per-bullet look, animation, blend and collision shape.
package content

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"unicode/utf8"

	"github.com/vovakirdan/tui-danmaku/internal/collision"
	"github.com/vovakirdan/tui-danmaku/internal/core"
)

//go:embed defaults/*.json
var defaultFS embed.FS

var (
	ErrUnknownBullet = errors.New("content: unknown bullet")
	ErrUnknownBlend  = errors.New("content: unknown blend mode")
	ErrUnknownShape  = errors.New("content: unknown collision method")
	ErrUnknownTint   = errors.New("content: unknown tint")
)

// Region is an atlas rectangle: x, y, width, height in atlas pixels.
type Region [4]int

func (r Region) W() int { return r[2] }
func (r Region) H() int { return r[3] }

type fileDoc struct {
	Atlas   string      `json:"atlas"`
	Bullets []bulletDoc `json:"bullets"`
}

type bulletDoc struct {
	ID        *int         `json:"id,omitempty"`
	Name      string       `json:"name"`
	Glyph     string       `json:"glyph,omitempty"`
	Region    Region       `json:"region"`
	Tint      string       `json:"tint,omitempty"`
	Frames    int          `json:"frames,omitempty"`
	FrameTime int          `json:"frame_time,omitempty"`
	Blend     string       `json:"blend,omitempty"`
	Delay     *delayDoc    `json:"delay,omitempty"`
	Collision collisionDoc `json:"collision"`
	Rotation  float64      `json:"rotation,omitempty"`
	Origin    *[2]float64  `json:"origin,omitempty"`
	Width     float64      `json:"width,omitempty"`
	Height    float64      `json:"height,omitempty"`
}

type delayDoc struct {
	Region Region `json:"region"`
	Tint   string `json:"tint,omitempty"`
	Blend  string `json:"blend,omitempty"`
	Glyph  string `json:"glyph,omitempty"`
}

type collisionDoc struct {
	Method string  `json:"method"`
	Radius float64 `json:"radius,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Delay is the look of a bullet during its delayed-spawn warning.
type Delay struct {
	Region Region
	Glyph  rune
	Color  core.Color
	Blend  core.BlendMode
}

// Bullet is a resolved bullet definition.
type Bullet struct {
	ID        int
	Name      string
	Glyph     rune
	Region    Region
	Color     core.Color
	Frames    int // Animation frames, at least 1
	FrameTime int // Ticks per animation frame
	Blend     core.BlendMode
	Delay     Delay
	Shape     collision.Shape
	Rotation  float64
	Origin    core.Vec2
	Width     float64
	Height    float64
}

// GlyphAt returns the glyph to draw at the given age. Animated bullets
// cycle through consecutive runes starting at Glyph.
func (b *Bullet) GlyphAt(age int) rune {
	if b.Frames <= 1 || b.FrameTime <= 0 {
		return b.Glyph
	}
	return b.Glyph + rune((age/b.FrameTime)%b.Frames)
}

// Set is a parsed bullet file.
type Set struct {
	Atlas   string
	bullets []*Bullet
	byName  map[string]*Bullet
	byID    map[int]*Bullet
}

// Parse decodes and validates a bullet description document.
func Parse(data []byte) (*Set, error) {
	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("content: parse: %w", err)
	}

	set := &Set{
		Atlas:  doc.Atlas,
		byName: make(map[string]*Bullet, len(doc.Bullets)),
		byID:   make(map[int]*Bullet, len(doc.Bullets)),
	}
	nextID := 0
	for _, bd := range doc.Bullets {
		if bd.ID != nil && *bd.ID >= nextID {
			nextID = *bd.ID + 1
		}
	}

	for i, bd := range doc.Bullets {
		b, err := resolve(bd)
		if err != nil {
			return nil, fmt.Errorf("content: bullet %d (%q): %w", i, bd.Name, err)
		}
		if bd.ID != nil {
			b.ID = *bd.ID
		} else {
			b.ID = nextID
			nextID++
		}
		if b.Name == "" {
			return nil, fmt.Errorf("content: bullet %d: missing name", i)
		}
		if _, dup := set.byName[b.Name]; dup {
			return nil, fmt.Errorf("content: duplicate bullet name %q", b.Name)
		}
		if _, dup := set.byID[b.ID]; dup {
			return nil, fmt.Errorf("content: duplicate bullet id %d (%q)", b.ID, b.Name)
		}
		set.bullets = append(set.bullets, b)
		set.byName[b.Name] = b
		set.byID[b.ID] = b
	}
	return set, nil
}

func resolve(bd bulletDoc) (*Bullet, error) {
	b := &Bullet{
		Name:      bd.Name,
		Region:    bd.Region,
		Frames:    max(bd.Frames, 1),
		FrameTime: bd.FrameTime,
		Rotation:  bd.Rotation,
		Width:     bd.Width,
		Height:    bd.Height,
	}

	var err error
	if b.Glyph, err = glyph(bd.Glyph, '*'); err != nil {
		return nil, err
	}
	if b.Color, err = tint(bd.Tint); err != nil {
		return nil, err
	}
	if b.Blend, err = blend(bd.Blend); err != nil {
		return nil, err
	}

	// Delayed spawn falls back to the bullet's own look.
	b.Delay = Delay{Region: b.Region, Glyph: b.Glyph, Color: b.Color, Blend: b.Blend}
	if d := bd.Delay; d != nil {
		if d.Region != (Region{}) {
			b.Delay.Region = d.Region
		}
		if b.Delay.Glyph, err = glyph(d.Glyph, b.Glyph); err != nil {
			return nil, err
		}
		if d.Tint != "" {
			if b.Delay.Color, err = tint(d.Tint); err != nil {
				return nil, err
			}
		}
		if d.Blend != "" {
			if b.Delay.Blend, err = blend(d.Blend); err != nil {
				return nil, err
			}
		}
	}

	kind, ok := collision.ParseKind(bd.Collision.Method)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownShape, bd.Collision.Method)
	}
	switch kind {
	case collision.KindCircle:
		if bd.Collision.Radius <= 0 {
			return nil, fmt.Errorf("circle collision needs a positive radius")
		}
		b.Shape = collision.Circle(bd.Collision.Radius)
	case collision.KindBox:
		if bd.Collision.Width <= 0 || bd.Collision.Height <= 0 {
			return nil, fmt.Errorf("rectangle collision needs a positive width and height")
		}
		b.Shape = collision.Box(bd.Collision.Width, bd.Collision.Height)
	default:
		b.Shape = collision.None()
	}

	// Size and origin derive from the atlas region when not given.
	if b.Width == 0 {
		b.Width = float64(b.Region.W())
	}
	if b.Height == 0 {
		b.Height = float64(b.Region.H())
	}
	if bd.Origin != nil {
		b.Origin = core.V(bd.Origin[0], bd.Origin[1])
	} else {
		b.Origin = core.V(b.Width/2, b.Height/2)
	}
	return b, nil
}

func glyph(s string, fallback rune) (rune, error) {
	if s == "" {
		return fallback, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("glyph %q must be a single character", s)
	}
	return r, nil
}

func tint(name string) (core.Color, error) {
	c, ok := core.ParseColor(name)
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownTint, name)
	}
	return c, nil
}

func blend(name string) (core.BlendMode, error) {
	m, ok := core.ParseBlendMode(name)
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownBlend, name)
	}
	return m, nil
}

// Load reads and parses a bullet file from disk.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in bullet set.
func Default() (*Set, error) {
	data, err := defaultFS.ReadFile("defaults/bullets.json")
	if err != nil {
		return nil, fmt.Errorf("content: read embedded bullets: %w", err)
	}
	return Parse(data)
}

// ByName returns the bullet called name.
func (s *Set) ByName(name string) (*Bullet, error) {
	if b, ok := s.byName[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBullet, name)
}

// ByID returns the bullet with the given numeric id.
func (s *Set) ByID(id int) (*Bullet, error) {
	if b, ok := s.byID[id]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w #%d", ErrUnknownBullet, id)
}

// All returns every bullet in file order.
func (s *Set) All() []*Bullet {
	return slices.Clone(s.bullets)
}

// Len returns the number of bullets.
func (s *Set) Len() int { return len(s.bullets) }
