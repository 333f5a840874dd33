package component

// Wall marks an immutable field boundary.
type Wall struct {
	Name string
}

var WallComponent = NewComponent[Wall]()

// Goal marks a wall behind a paddle. A ball striking it scores for the other player.
type Goal struct {
	Defender PaddleSide
}

var GoalComponent = NewComponent[Goal]()
