package component

// Transform is a world position; y grows upwards and the origin is the field centre.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]()
