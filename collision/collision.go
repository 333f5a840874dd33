// Package collision resolves a moving ball against static axis-aligned colliders.
package collision

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Side identifies the face of a collider struck by the ball.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
	SideTop
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Circle is the ball's bounding shape.
type Circle struct {
	Center cp.Vector
	Radius float64
}

// AABB is an axis-aligned box in half-extent form.
type AABB struct {
	Center      cp.Vector
	HalfExtents cp.Vector
}

// NewAABB builds a box from its centre and half extents.
func NewAABB(cx, cy, hw, hh float64) AABB {
	return AABB{Center: cp.Vector{X: cx, Y: cy}, HalfExtents: cp.Vector{X: hw, Y: hh}}
}

// BB returns the box as chipmunk bounds.
func (b AABB) BB() cp.BB {
	return cp.NewBBForExtents(b.Center, b.HalfExtents.X, b.HalfExtents.Y)
}

// ClosestPoint returns the point of the box nearest to p. Points inside the box map to themselves.
func (b AABB) ClosestPoint(p cp.Vector) cp.Vector {
	bb := b.BB()
	return cp.Vector{
		X: math.Min(math.Max(p.X, bb.L), bb.R),
		Y: math.Min(math.Max(p.Y, bb.B), bb.T),
	}
}

// Intersects reports whether the circle touches or overlaps the box.
func Intersects(c Circle, b AABB) bool {
	closest := b.ClosestPoint(c.Center)
	return c.Center.DistanceSq(closest) <= c.Radius*c.Radius
}

// Classify maps the offset from the closest point to the circle centre onto a side.
// Horizontal dominance is checked first, so a zero offset resolves to SideBottom.
func Classify(offset cp.Vector) Side {
	if math.Abs(offset.X) > math.Abs(offset.Y) {
		if offset.X < 0 {
			return SideLeft
		}
		return SideRight
	}
	if offset.Y > 0 {
		return SideTop
	}
	return SideBottom
}

// CollideWithSide returns the struck side, or false when the shapes do not intersect.
func CollideWithSide(c Circle, b AABB) (Side, bool) {
	if !Intersects(c, b) {
		return SideNone, false
	}
	closest := b.ClosestPoint(c.Center)
	return Classify(c.Center.Sub(closest)), true
}
