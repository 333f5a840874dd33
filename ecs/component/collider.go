package component

// CircleCollider gives an entity a bounding circle centred on its transform.
type CircleCollider struct {
	Radius float64
}

var CircleColliderComponent = NewComponent[CircleCollider]()

// BoxCollider is an axis-aligned box in half-extent form centred on the transform.
type BoxCollider struct {
	HalfWidth  float64
	HalfHeight float64
}

var BoxColliderComponent = NewComponent[BoxCollider]()
