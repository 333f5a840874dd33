package component

// Impulse is applied once to a physics body and then marked applied.
type Impulse struct {
	X       float64
	Y       float64
	Applied bool
}

var ImpulseComponent = NewComponent[Impulse]()
