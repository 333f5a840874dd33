package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/pong/assets"
	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
	"github.com/milk9111/pong/prefabs"
)

// Options tunes how prefabs become entities.
type Options struct {
	// Audio loads sound clips; headless runs leave it off so no audio device is opened.
	Audio bool
}

type buildContext struct {
	PrefabPath string
	Options    Options
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"transform":       addTransform,
	"velocity":        addVelocity,
	"ball":            addBall,
	"circle_collider": addCircleCollider,
	"box_collider":    addBoxCollider,
	"paddle":          addPaddle,
	"input":           addInput,
	"paddle_ai":       addPaddleAI,
	"wall":            addWall,
	"goal":            addGoal,
	"shape":           addShape,
	"audio":           addAudio,
	"physics_body":    addPhysicsBody,
	"impulse":         addImpulse,
	"score_board":     addScoreBoard,
}

var componentBuildOrder = []string{
	"transform",
	"velocity",
	"ball",
	"circle_collider",
	"box_collider",
	"paddle",
	"input",
	"paddle_ai",
	"wall",
	"goal",
	"shape",
	"audio",
	"physics_body",
	"impulse",
	"score_board",
}

func BuildEntity(w *ecs.World, prefabPath string, opts Options) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Options: opts}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for components %s", prefabPath, strings.Join(names, ", "))
	}

	return e, nil
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y})
}

type velocitySpec = prefabs.VelocityComponentSpec

func addVelocity(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[velocitySpec](raw)
	if err != nil {
		return fmt.Errorf("decode velocity spec: %w", err)
	}
	return ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{X: spec.X, Y: spec.Y})
}

type ballSpec = prefabs.BallComponentSpec

func addBall(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[ballSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ball spec: %w", err)
	}
	if spec.LaunchSpeed <= 0 {
		return fmt.Errorf("ball launch_speed must be positive, got %v", spec.LaunchSpeed)
	}
	return ecs.Add(w, e, component.BallComponent.Kind(), &component.Ball{
		LaunchX:     spec.LaunchX,
		LaunchY:     spec.LaunchY,
		LaunchSpeed: spec.LaunchSpeed,
		MaxSpeed:    spec.MaxSpeed,
	})
}

type circleColliderSpec = prefabs.CircleColliderComponentSpec

func addCircleCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[circleColliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode circle_collider spec: %w", err)
	}
	if spec.Radius <= 0 {
		return fmt.Errorf("circle_collider radius must be positive, got %v", spec.Radius)
	}
	return ecs.Add(w, e, component.CircleColliderComponent.Kind(), &component.CircleCollider{Radius: spec.Radius})
}

type boxColliderSpec = prefabs.BoxColliderComponentSpec

func addBoxCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[boxColliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode box_collider spec: %w", err)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("box_collider size must be positive, got %vx%v", spec.Width, spec.Height)
	}
	return ecs.Add(w, e, component.BoxColliderComponent.Kind(), &component.BoxCollider{
		HalfWidth:  spec.Width / 2,
		HalfHeight: spec.Height / 2,
	})
}

type paddleSpec = prefabs.PaddleComponentSpec

func addPaddle(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[paddleSpec](raw)
	if err != nil {
		return fmt.Errorf("decode paddle spec: %w", err)
	}
	side, err := parsePaddleSide(spec.Side)
	if err != nil {
		return err
	}
	if spec.Bottom > spec.Top {
		return fmt.Errorf("paddle bounds inverted: bottom %v > top %v", spec.Bottom, spec.Top)
	}
	return ecs.Add(w, e, component.PaddleComponent.Kind(), &component.Paddle{
		Side:    side,
		Speed:   spec.Speed,
		Top:     spec.Top,
		Bottom:  spec.Bottom,
		UpKey:   spec.UpKey,
		DownKey: spec.DownKey,
	})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type paddleAISpec = prefabs.PaddleAIComponentSpec

func addPaddleAI(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[paddleAISpec](raw)
	if err != nil {
		return fmt.Errorf("decode paddle_ai spec: %w", err)
	}
	if strings.TrimSpace(spec.Script) == "" {
		return fmt.Errorf("paddle_ai requires a script")
	}
	return ecs.Add(w, e, component.PaddleAIComponent.Kind(), &component.PaddleAI{Script: spec.Script, DeadZone: spec.DeadZone})
}

type wallSpec = prefabs.WallComponentSpec

func addWall(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[wallSpec](raw)
	if err != nil {
		return fmt.Errorf("decode wall spec: %w", err)
	}
	return ecs.Add(w, e, component.WallComponent.Kind(), &component.Wall{Name: spec.Name})
}

type goalSpec = prefabs.GoalComponentSpec

func addGoal(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[goalSpec](raw)
	if err != nil {
		return fmt.Errorf("decode goal spec: %w", err)
	}
	side, err := parsePaddleSide(spec.Defender)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.GoalComponent.Kind(), &component.Goal{Defender: side})
}

type shapeSpec = prefabs.ShapeComponentSpec

func addShape(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[shapeSpec](raw)
	if err != nil {
		return fmt.Errorf("decode shape spec: %w", err)
	}
	shape := &component.Shape{
		Width:  spec.Width,
		Height: spec.Height,
		Radius: spec.Radius,
		Layer:  spec.Layer,
	}
	switch strings.ToLower(spec.Kind) {
	case "", "rect":
		shape.Kind = component.ShapeRect
	case "circle":
		shape.Kind = component.ShapeCircle
	default:
		return fmt.Errorf("unknown shape kind %q", spec.Kind)
	}
	if spec.Color != nil {
		shape.Color = spec.Color.Color
	}
	return ecs.Add(w, e, component.ShapeComponent.Kind(), shape)
}

type audioSpec = prefabs.AudioComponentSpec

func addAudio(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[audioSpec](raw)
	if err != nil {
		return fmt.Errorf("decode audio spec: %w", err)
	}
	if len(spec.Clips) == 0 {
		return nil
	}
	comp, err := buildAudioComponentFromSpec(spec.Clips, ctx.Options.Audio)
	if err != nil {
		return fmt.Errorf("build audio component from spec: %w", err)
	}
	return ecs.Add(w, e, component.AudioComponent.Kind(), comp)
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}
	if spec.Radius <= 0 && (spec.Width <= 0 || spec.Height <= 0) {
		return fmt.Errorf("physics_body needs a radius or a width and height")
	}
	mass := spec.Mass
	if mass <= 0 {
		mass = 1
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:      spec.Width,
		Height:     spec.Height,
		Radius:     spec.Radius,
		Mass:       mass,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
		Static:     spec.Static,
		Kinematic:  spec.Kinematic,
	})
}

type impulseSpec = prefabs.ImpulseComponentSpec

func addImpulse(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[impulseSpec](raw)
	if err != nil {
		return fmt.Errorf("decode impulse spec: %w", err)
	}
	return ecs.Add(w, e, component.ImpulseComponent.Kind(), &component.Impulse{X: spec.X, Y: spec.Y})
}

type scoreBoardSpec = prefabs.ScoreBoardComponentSpec

func addScoreBoard(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[scoreBoardSpec](raw)
	if err != nil {
		return fmt.Errorf("decode score_board spec: %w", err)
	}
	if spec.WinScore < 0 {
		return fmt.Errorf("score_board win_score must not be negative, got %d", spec.WinScore)
	}
	return ecs.Add(w, e, component.ScoreBoardComponent.Kind(), &component.ScoreBoard{WinScore: spec.WinScore})
}

func parsePaddleSide(v string) (component.PaddleSide, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "left":
		return component.PaddleLeft, nil
	case "right":
		return component.PaddleRight, nil
	default:
		return 0, fmt.Errorf("unknown paddle side %q", v)
	}
}

type audioClipSpec = prefabs.AudioClipSpec

// buildAudioComponentFromSpec keeps clip names and volumes even when players are not loaded,
// so play requests still resolve in headless runs.
func buildAudioComponentFromSpec(audioSpecs []audioClipSpec, load bool) (*component.Audio, error) {
	n := len(audioSpecs)
	names := make([]string, 0, n)
	players := make([]*audio.Player, 0, n)
	volume := make([]float64, 0, n)

	for i, clip := range audioSpecs {
		var player *audio.Player
		if load {
			p, err := assets.LoadAudioPlayer(clip.File)
			if err != nil {
				return nil, fmt.Errorf("audio clip %d (%q): %w", i, clip.Name, err)
			}
			player = p
		}
		names = append(names, clip.Name)
		players = append(players, player)
		volume = append(volume, clip.Volume)
	}

	return &component.Audio{
		Names:   names,
		Players: players,
		Volume:  volume,
		Play:    make([]bool, n),
		Stop:    make([]bool, n),
	}, nil
}
