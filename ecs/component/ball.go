package component

// Ball marks the single moving body and remembers how to relaunch it.
// The launch velocity is (LaunchX, LaunchY) * LaunchSpeed.
type Ball struct {
	LaunchX     float64
	LaunchY     float64
	LaunchSpeed float64
	// MaxSpeed caps the speed of the ball in the physics variant; 0 disables the cap.
	MaxSpeed float64
	// Parked balls sit at the centre until the match is reset.
	Parked bool
}

// LaunchVelocity returns the launch velocity, mirrored horizontally when towardLeft is set.
func (b *Ball) LaunchVelocity(towardLeft bool) Velocity {
	vx := b.LaunchX * b.LaunchSpeed
	vy := b.LaunchY * b.LaunchSpeed
	if (towardLeft && vx > 0) || (!towardLeft && vx < 0) {
		vx = -vx
	}
	return Velocity{X: vx, Y: vy}
}

var BallComponent = NewComponent[Ball]()
