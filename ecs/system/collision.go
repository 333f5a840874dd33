package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pong/collision"
	"github.com/milk9111/pong/common"
	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
)

// CollisionSystem bounces the ball off every box collider it overlaps this tick.
type CollisionSystem struct {
	rng collision.Source
}

func NewCollisionSystem(rng collision.Source) *CollisionSystem {
	return &CollisionSystem{rng: rng}
}

func (c *CollisionSystem) Update(w *ecs.World) {
	if c == nil || w == nil {
		return
	}

	colliders := w.Query(component.TransformComponent.Kind(), component.BoxColliderComponent.Kind())

	ecs.ForEach4(w,
		component.BallComponent.Kind(),
		component.TransformComponent.Kind(),
		component.VelocityComponent.Kind(),
		component.CircleColliderComponent.Kind(),
		func(ball ecs.Entity, b *component.Ball, t *component.Transform, vel *component.Velocity, circle *component.CircleCollider) {
			if !common.Finite(vel.X) || !common.Finite(vel.Y) {
				*vel = b.LaunchVelocity(vel.X < 0)
			}

			shape := collision.Circle{Center: cp.Vector{X: t.X, Y: t.Y}, Radius: circle.Radius}
			for _, other := range colliders {
				if other == ball {
					continue
				}
				ot, _ := ecs.Get(w, other, component.TransformComponent.Kind())
				box, _ := ecs.Get(w, other, component.BoxColliderComponent.Kind())
				side, ok := collision.CollideWithSide(shape, collision.NewAABB(ot.X, ot.Y, box.HalfWidth, box.HalfHeight))
				if !ok {
					continue
				}

				w.Events().Push(ecs.Event{
					Type: ecs.EventCollision,
					Data: ecs.CollisionEvent{Ball: ball, Collider: other, Side: int(side)},
				})

				out, _, _ := collision.Resolve(cp.Vector{X: vel.X, Y: vel.Y}, side, c.rng)
				vel.X, vel.Y = out.X, out.Y
			}
		})
}
