package component

// Input stores per-frame directional input for a paddle.
type Input struct {
	Up   bool
	Down bool
}

// Direction returns -1, 0 or 1.
func (i *Input) Direction() float64 {
	if i == nil {
		return 0
	}
	dir := 0.0
	if i.Down {
		dir -= 1
	}
	if i.Up {
		dir += 1
	}
	return dir
}

var InputComponent = NewComponent[Input]()
