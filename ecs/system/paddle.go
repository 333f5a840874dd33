package system

import (
	"github.com/milk9111/pong/common"
	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
)

// PaddleMotionSystem moves paddles by their input direction and clamps them to their bounds.
type PaddleMotionSystem struct{}

func NewPaddleMotionSystem() *PaddleMotionSystem {
	return &PaddleMotionSystem{}
}

func (p *PaddleMotionSystem) Update(w *ecs.World) {
	dt := w.Delta()
	ecs.ForEach3(w, component.PaddleComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, paddle *component.Paddle, input *component.Input, t *component.Transform) {
		next := t.Y + input.Direction()*paddle.Speed*dt
		t.Y = common.Clamp(next, paddle.Bottom, paddle.Top)
	})
}
