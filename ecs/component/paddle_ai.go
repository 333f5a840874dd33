package component

// PaddleAI drives a paddle's Input from a tengo script instead of the keyboard.
type PaddleAI struct {
	Script   string
	DeadZone float64
}

var PaddleAIComponent = NewComponent[PaddleAI]()
