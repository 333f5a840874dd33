package system

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/pong/common"
	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
)

var colliderDebugColor = color.NRGBA{R: 255, G: 60, B: 60, A: 220}

type RenderSystem struct {
	// Debug outlines every collider on top of the shapes.
	Debug bool
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	entities := w.Query(component.TransformComponent.Kind(), component.ShapeComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		si, _ := ecs.Get(w, entities[i], component.ShapeComponent.Kind())
		sj, _ := ecs.Get(w, entities[j], component.ShapeComponent.Kind())
		if si.Layer != sj.Layer {
			return si.Layer < sj.Layer
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		s, _ := ecs.Get(w, e, component.ShapeComponent.Kind())
		clr := s.Color
		if clr == nil {
			clr = color.White
		}

		x, y := common.FieldToScreen(t.X, t.Y)
		switch s.Kind {
		case component.ShapeCircle:
			vector.DrawFilledCircle(screen, float32(x), float32(y), float32(s.Radius), clr, true)
		default:
			vector.DrawFilledRect(screen, float32(x-s.Width/2), float32(y-s.Height/2), float32(s.Width), float32(s.Height), clr, false)
		}
	}

	if r.Debug {
		drawColliders(w, screen)
	}
}

func drawColliders(w *ecs.World, screen *ebiten.Image) {
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.BoxColliderComponent.Kind(), func(_ ecs.Entity, t *component.Transform, box *component.BoxCollider) {
		x, y := common.FieldToScreen(t.X-box.HalfWidth, t.Y+box.HalfHeight)
		vector.StrokeRect(screen, float32(x), float32(y), float32(box.HalfWidth*2), float32(box.HalfHeight*2), 1, colliderDebugColor, false)
	})
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.CircleColliderComponent.Kind(), func(_ ecs.Entity, t *component.Transform, c *component.CircleCollider) {
		x, y := common.FieldToScreen(t.X, t.Y)
		vector.StrokeCircle(screen, float32(x), float32(y), float32(c.Radius), 1, colliderDebugColor, true)
	})
}
