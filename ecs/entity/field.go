package entity

import (
	"fmt"
	"math"

	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
	"github.com/milk9111/pong/prefabs"
)

// FieldOptions configures a freshly spawned match.
type FieldOptions struct {
	Options
	// CPUScript, when set, hands the right paddle to the named tengo script.
	CPUScript   string
	CPUDeadZone float64
}

// SpawnField builds every entity listed in the game spec.
func SpawnField(w *ecs.World, spec *prefabs.GameSpec, opts FieldOptions) ([]ecs.Entity, error) {
	if spec == nil {
		return nil, fmt.Errorf("spawn field: game spec is nil")
	}

	spawned := make([]ecs.Entity, 0, len(spec.Entities))
	for _, name := range spec.Entities {
		e, err := BuildEntity(w, name, opts.Options)
		if err != nil {
			for _, prev := range spawned {
				ecs.DestroyEntity(w, prev)
			}
			return nil, fmt.Errorf("spawn field: %w", err)
		}
		spawned = append(spawned, e)
	}

	if opts.CPUScript != "" {
		if err := AttachCPU(w, component.PaddleRight, opts.CPUScript, opts.CPUDeadZone); err != nil {
			return nil, fmt.Errorf("spawn field: %w", err)
		}
	}

	return spawned, nil
}

// AttachCPU hands the paddle defending side to a script.
func AttachCPU(w *ecs.World, side component.PaddleSide, script string, deadZone float64) error {
	for _, e := range w.Query(component.PaddleComponent.Kind()) {
		p, ok := ecs.Get(w, e, component.PaddleComponent.Kind())
		if !ok || p.Side != side {
			continue
		}
		if deadZone <= 0 {
			deadZone = 4
		}
		return ecs.Add(w, e, component.PaddleAIComponent.Kind(), &component.PaddleAI{Script: script, DeadZone: deadZone})
	}
	return fmt.Errorf("attach cpu: no paddle on side %d", side)
}

// FieldBounds returns the half-extents of the area enclosed by the outer edges of every wall.
func FieldBounds(w *ecs.World) (halfWidth, halfHeight float64) {
	ecs.ForEach3(w, component.WallComponent.Kind(), component.TransformComponent.Kind(), component.BoxColliderComponent.Kind(), func(_ ecs.Entity, _ *component.Wall, t *component.Transform, box *component.BoxCollider) {
		halfWidth = math.Max(halfWidth, math.Abs(t.X)+box.HalfWidth)
		halfHeight = math.Max(halfHeight, math.Abs(t.Y)+box.HalfHeight)
	})
	return halfWidth, halfHeight
}
