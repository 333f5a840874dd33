package component

import "image/color"

type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
)

// Shape is a flat-coloured primitive drawn at the entity's transform.
type Shape struct {
	Kind   ShapeKind
	Width  float64
	Height float64
	Radius float64
	Color  color.Color
	Layer  int
}

var ShapeComponent = NewComponent[Shape]()
