// Package collision implements the closed set of collision shapes and a
// symmetric pairwise overlap test between them.
package collision

import (
	"fmt"

	"github.com/vovakirdan/tui-danmaku/internal/core"
)

// Kind identifies a shape variant.
type Kind uint8

const (
	KindNone   Kind = iota // Never collides
	KindCircle             // Circle of Radius around the position
	KindBox                // Axis-aligned W x H box centered on the position
)

// String returns the content-file name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCircle:
		return "circle"
	case KindBox:
		return "rectangle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind resolves a content-file collision method tag.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "", "none":
		return KindNone, true
	case "circle":
		return KindCircle, true
	case "rectangle", "rect", "box":
		return KindBox, true
	default:
		return 0, false
	}
}

// Shape is a tagged union over the supported shapes.
// Positions are always the shape's center.
type Shape struct {
	Kind   Kind
	Radius float64 // KindCircle
	W, H   float64 // KindBox
}

// Circle returns a circle shape.
func Circle(radius float64) Shape {
	return Shape{Kind: KindCircle, Radius: radius}
}

// Box returns an axis-aligned box shape.
func Box(w, h float64) Shape {
	return Shape{Kind: KindBox, W: w, H: h}
}

// None returns the shape that never collides, used by decorative bullets.
func None() Shape {
	return Shape{Kind: KindNone}
}

// String describes the shape, e.g. "circle r=1.5".
func (s Shape) String() string {
	switch s.Kind {
	case KindCircle:
		return fmt.Sprintf("circle r=%g", s.Radius)
	case KindBox:
		return fmt.Sprintf("rectangle %gx%g", s.W, s.H)
	default:
		return s.Kind.String()
	}
}

// Extents returns the half-width and half-height of the shape's bounding box.
func (s Shape) Extents() (hw, hh float64) {
	switch s.Kind {
	case KindCircle:
		return s.Radius, s.Radius
	case KindBox:
		return s.W / 2, s.H / 2
	default:
		return 0, 0
	}
}

// Bounds returns the shape's bounding box at pos.
func (s Shape) Bounds(pos core.Vec2) core.Rect {
	hw, hh := s.Extents()
	return core.NewRect(pos.X-hw, pos.Y-hh, hw*2, hh*2)
}

// PairError reports a shape pairing neither side recognizes.
// It is a content or programming fault, never a runtime condition.
type PairError struct {
	A, B Kind
}

func (e *PairError) Error() string {
	return fmt.Sprintf("collision: unsupported shape pair %s/%s", e.A, e.B)
}
