package component

// PaddleSide says which goal a paddle defends.
type PaddleSide int

const (
	PaddleLeft PaddleSide = iota + 1
	PaddleRight
)

// Paddle moves vertically inside [Bottom, Top].
type Paddle struct {
	Side   PaddleSide
	Speed  float64
	Top    float64
	Bottom float64
	// UpKey and DownKey are key names as understood by ebiten.KeyName, e.g. "W".
	UpKey   string
	DownKey string
}

var PaddleComponent = NewComponent[Paddle]()
