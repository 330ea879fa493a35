package collision

import (
	"github.com/vovakirdan/tui-danmaku/internal/core"
)

// Collider runs shape overlap tests with a configured circle mode.
//
// Orthogonal selects the cheaper circle test that compares the squared
// distance against r1² + r2² instead of (r1 + r2)². The formula is kept as is.
type Collider struct {
	Orthogonal bool
}

// Collide reports whether a at pa overlaps b at pb using exact circle tests.
func Collide(a Shape, pa core.Vec2, b Shape, pb core.Vec2) bool {
	return Collider{}.Collide(a, pa, b, pb)
}

// Collide reports whether a at pa overlaps b at pb.
//
// The test is first delegated to a; if a does not recognize b's kind it is
// delegated to b. If neither side recognizes the pairing Collide panics with
// a *PairError.
func (c Collider) Collide(a Shape, pa core.Vec2, b Shape, pb core.Vec2) bool {
	if hit, ok := c.test(a, pa, b, pb); ok {
		return hit
	}
	if hit, ok := c.test(b, pb, a, pa); ok {
		return hit
	}
	panic(&PairError{A: a.Kind, B: b.Kind})
}

// test is the single-dispatch step: s decides whether it knows how to test
// against o. The second result is false when it does not.
func (c Collider) test(s Shape, ps core.Vec2, o Shape, po core.Vec2) (hit, ok bool) {
	switch s.Kind {
	case KindNone:
		switch o.Kind {
		case KindNone, KindCircle, KindBox:
			return false, true
		}
	case KindCircle:
		switch o.Kind {
		case KindNone:
			return false, true
		case KindCircle:
			if c.Orthogonal {
				return circleOrthogonal(ps, s.Radius, po, o.Radius), true
			}
			return circleCircle(ps, s.Radius, po, o.Radius), true
		case KindBox:
			return circleBox(ps, s.Radius, po, o.W, o.H), true
		}
	case KindBox:
		switch o.Kind {
		case KindNone:
			return false, true
		case KindBox:
			return boxBox(ps, s.W, s.H, po, o.W, o.H), true
		}
		// Box defers circles to the circle side.
	}
	return false, false
}

func circleCircle(pa core.Vec2, ra float64, pb core.Vec2, rb float64) bool {
	dx := pa.X - pb.X
	dy := pa.Y - pb.Y
	sum := ra + rb
	return dx*dx+dy*dy < sum*sum
}

func circleOrthogonal(pa core.Vec2, ra float64, pb core.Vec2, rb float64) bool {
	dx := pa.X - pb.X
	dy := pa.Y - pb.Y
	return dx*dx+dy*dy < ra*ra+rb*rb
}

func circleBox(pc core.Vec2, r float64, pb core.Vec2, w, h float64) bool {
	cx := core.ClampF(pc.X, pb.X-w/2, pb.X+w/2)
	cy := core.ClampF(pc.Y, pb.Y-h/2, pb.Y+h/2)
	dx := pc.X - cx
	dy := pc.Y - cy
	return dx*dx+dy*dy < r*r
}

func boxBox(pa core.Vec2, wa, ha float64, pb core.Vec2, wb, hb float64) bool {
	dx := pa.X - pb.X
	if dx < 0 {
		dx = -dx
	}
	dy := pa.Y - pb.Y
	if dy < 0 {
		dy = -dy
	}
	return dx*2 < wa+wb && dy*2 < ha+hb
}

// Near is a coarse rejection test on the shapes' bounding boxes.
// A false result guarantees Collide is false for any circle mode.
func Near(a Shape, pa core.Vec2, b Shape, pb core.Vec2) bool {
	if a.Kind == KindNone || b.Kind == KindNone {
		return false
	}
	ahw, ahh := a.Extents()
	bhw, bhh := b.Extents()
	dx := pa.X - pb.X
	if dx < 0 {
		dx = -dx
	}
	dy := pa.Y - pb.Y
	if dy < 0 {
		dy = -dy
	}
	return dx <= ahw+bhw && dy <= ahh+bhh
}
