package common

const (
	BaseWidth  = 500
	BaseHeight = 500
)

// FieldToScreen maps y-up world coordinates centred on the field to screen pixels.
func FieldToScreen(x, y float64) (float64, float64) {
	return BaseWidth/2 + x, BaseHeight/2 - y
}
