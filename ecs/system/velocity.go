package system

import (
	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
)

// VelocitySystem integrates position by velocity over the fixed tick.
type VelocitySystem struct{}

func NewVelocitySystem() *VelocitySystem {
	return &VelocitySystem{}
}

func (v *VelocitySystem) Update(w *ecs.World) {
	dt := w.Delta()
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.VelocityComponent.Kind(), func(_ ecs.Entity, t *component.Transform, vel *component.Velocity) {
		t.X += vel.X * dt
		t.Y += vel.Y * dt
	})
}
