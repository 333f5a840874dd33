package collision

import "github.com/jakecoffman/cp"

// Source supplies the perturbation added to a reflected axis. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// ShouldReflect reports which axes to flip. An axis is only flipped while the ball still
// moves into the struck face, so a ball already leaving is never bounced twice.
func ShouldReflect(side Side, vel cp.Vector) (x, y bool) {
	switch side {
	case SideLeft:
		x = vel.X > 0
	case SideRight:
		x = vel.X < 0
	case SideTop:
		y = vel.Y < 0
	case SideBottom:
		y = vel.Y > 0
	}
	return x, y
}

// ReflectAxis negates v and adds a perturbation in [0, 1).
func ReflectAxis(v float64, rng Source) float64 {
	diff := 0.0
	if rng != nil {
		diff = rng.Float64()
	}
	return -v + diff
}

// Resolve applies the reflection for side to vel. Each reflected axis draws its own perturbation.
func Resolve(vel cp.Vector, side Side, rng Source) (out cp.Vector, reflectedX, reflectedY bool) {
	reflectedX, reflectedY = ShouldReflect(side, vel)
	out = vel
	if reflectedX {
		out.X = ReflectAxis(vel.X, rng)
	}
	if reflectedY {
		out.Y = ReflectAxis(vel.Y, rng)
	}
	return out, reflectedX, reflectedY
}
