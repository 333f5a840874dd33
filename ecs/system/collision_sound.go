package system

import (
	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
)

const (
	clipPaddleHit = "paddle_hit"
	clipWallHit   = "wall_hit"
)

// CollisionSoundSystem requests a bounce clip on the ball for every collision this tick.
type CollisionSoundSystem struct{}

func NewCollisionSoundSystem() *CollisionSoundSystem {
	return &CollisionSoundSystem{}
}

func (c *CollisionSoundSystem) Update(w *ecs.World) {
	for _, evt := range w.Events().OfType(ecs.EventCollision) {
		ce, ok := evt.Data.(ecs.CollisionEvent)
		if !ok {
			continue
		}
		audioComp, ok := ecs.Get(w, ce.Ball, component.AudioComponent.Kind())
		if !ok {
			continue
		}
		clip := clipWallHit
		if ecs.Has(w, ce.Collider, component.PaddleComponent.Kind()) {
			clip = clipPaddleHit
		}
		audioComp.Request(clip)
	}
}
