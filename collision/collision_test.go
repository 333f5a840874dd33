package collision

import (
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestCollideWithSide(t *testing.T) {
	paddle := NewAABB(150, 0, 5, 20)

	tests := []struct {
		name   string
		center cp.Vector
		radius float64
		want   Side
		hit    bool
	}{
		{"far_right", cp.Vector{X: 175, Y: 0}, 5, SideNone, false},
		{"just_outside_corner", cp.Vector{X: 159, Y: 24}, 5, SideNone, false},
		{"above_expanded_bounds", cp.Vector{X: 150, Y: 26}, 5, SideNone, false},
		{"left_face", cp.Vector{X: 143, Y: 0}, 5, SideLeft, true},
		{"right_face", cp.Vector{X: 158, Y: 3}, 5, SideRight, true},
		{"top_face", cp.Vector{X: 151, Y: 23}, 5, SideTop, true},
		{"bottom_face", cp.Vector{X: 149, Y: -24}, 5, SideBottom, true},
		{"touching_left_face", cp.Vector{X: 140, Y: 0}, 5, SideLeft, true},
		{"exact_corner", cp.Vector{X: 155, Y: 20}, 5, SideBottom, true},
		{"inside_box", cp.Vector{X: 150, Y: 5}, 5, SideBottom, true},
		{"diagonal_tie_resolves_vertical", cp.Vector{X: 157, Y: 22}, 5, SideTop, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := CollideWithSide(Circle{Center: tc.center, Radius: tc.radius}, paddle)
			if ok != tc.hit {
				t.Fatalf("expected hit=%v, got %v", tc.hit, ok)
			}
			if got != tc.want {
				t.Fatalf("expected side %v, got %v", tc.want, got)
			}
		})
	}
}

func TestClosestPoint(t *testing.T) {
	box := NewAABB(0, 0, 10, 5)
	cases := []struct {
		in, want cp.Vector
	}{
		{cp.Vector{X: 20, Y: 0}, cp.Vector{X: 10, Y: 0}},
		{cp.Vector{X: -20, Y: -20}, cp.Vector{X: -10, Y: -5}},
		{cp.Vector{X: 3, Y: 2}, cp.Vector{X: 3, Y: 2}},
	}
	for _, c := range cases {
		if got := box.ClosestPoint(c.in); got != c.want {
			t.Fatalf("closest point of %v: expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestShouldReflect(t *testing.T) {
	tests := []struct {
		name  string
		side  Side
		vel   cp.Vector
		wantX bool
		wantY bool
	}{
		{"left_moving_in", SideLeft, cp.Vector{X: 5, Y: 1}, true, false},
		{"left_moving_away", SideLeft, cp.Vector{X: -5, Y: 1}, false, false},
		{"right_moving_in", SideRight, cp.Vector{X: -5, Y: 1}, true, false},
		{"right_moving_away", SideRight, cp.Vector{X: 5, Y: 1}, false, false},
		{"top_moving_in", SideTop, cp.Vector{X: 1, Y: -3}, false, true},
		{"top_moving_away", SideTop, cp.Vector{X: 1, Y: 3}, false, false},
		{"bottom_moving_in", SideBottom, cp.Vector{X: 1, Y: 3}, false, true},
		{"bottom_moving_away", SideBottom, cp.Vector{X: 1, Y: -3}, false, false},
		{"none", SideNone, cp.Vector{X: 1, Y: 1}, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := ShouldReflect(tc.side, tc.vel)
			if x != tc.wantX || y != tc.wantY {
				t.Fatalf("expected (%v,%v), got (%v,%v)", tc.wantX, tc.wantY, x, y)
			}
		})
	}
}

func TestReflectAxisRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		got := ReflectAxis(5, rng)
		if got < -5 || got >= -4 {
			t.Fatalf("reflected value %v outside [-5, -4)", got)
		}
	}
}

func TestResolveNoDoubleBounce(t *testing.T) {
	vel := cp.Vector{X: -5, Y: 2}
	got, rx, ry := Resolve(vel, SideLeft, fixedSource(0.5))
	if rx || ry {
		t.Fatalf("expected no reflection, got rx=%v ry=%v", rx, ry)
	}
	if got != vel {
		t.Fatalf("velocity changed: %v -> %v", vel, got)
	}
}

func TestResolveFlipsStruckAxisOnly(t *testing.T) {
	got, rx, ry := Resolve(cp.Vector{X: 180, Y: 90}, SideLeft, fixedSource(0.25))
	if !rx || ry {
		t.Fatalf("expected x-only reflection, got rx=%v ry=%v", rx, ry)
	}
	if got.X != -179.75 {
		t.Fatalf("expected vx -179.75, got %v", got.X)
	}
	if got.Y != 90 {
		t.Fatalf("expected vy untouched, got %v", got.Y)
	}
}

type countingSource struct{ calls int }

func (c *countingSource) Float64() float64 {
	c.calls++
	return 0
}

func TestResolveDrawsOncePerReflectedAxis(t *testing.T) {
	src := &countingSource{}
	Resolve(cp.Vector{X: 1, Y: 1}, SideTop, src)
	if src.calls != 0 {
		t.Fatalf("expected no draw for an axis moving away, got %d", src.calls)
	}
	Resolve(cp.Vector{X: 1, Y: 1}, SideBottom, src)
	if src.calls != 1 {
		t.Fatalf("expected one draw, got %d", src.calls)
	}
}

func TestEndToEndPaddleStrike(t *testing.T) {
	ball := Circle{Center: cp.Vector{X: 143, Y: 0}, Radius: 5}
	paddle := NewAABB(150, 0, 5, 20)

	side, ok := CollideWithSide(ball, paddle)
	if !ok || side != SideLeft {
		t.Fatalf("expected left strike, got %v ok=%v", side, ok)
	}
	vel, _, _ := Resolve(cp.Vector{X: 180, Y: 90}, side, rand.New(rand.NewSource(1)))
	if vel.X >= 0 {
		t.Fatalf("expected negative vx after reflection, got %v", vel.X)
	}
}
