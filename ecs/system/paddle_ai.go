package system

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
	"github.com/milk9111/pong/prefabs"
)

var paddleScriptInputs = []string{"ball_x", "ball_y", "ball_vx", "ball_vy", "paddle_x", "paddle_y", "dead_zone"}

// PaddleAISystem runs each CPU paddle's tengo script and writes the chosen direction into its Input.
type PaddleAISystem struct {
	scripts map[string]*tengo.Compiled
	failed  map[string]bool
}

func NewPaddleAISystem() *PaddleAISystem {
	return &PaddleAISystem{
		scripts: make(map[string]*tengo.Compiled),
		failed:  make(map[string]bool),
	}
}

func (p *PaddleAISystem) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}

	ballEnt, ok := w.First(component.BallComponent.Kind())
	if !ok {
		return
	}
	ballT, ok := ecs.Get(w, ballEnt, component.TransformComponent.Kind())
	if !ok {
		return
	}
	ballV, ok := ecs.Get(w, ballEnt, component.VelocityComponent.Kind())
	if !ok {
		return
	}

	ecs.ForEach3(w, component.PaddleAIComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, ai *component.PaddleAI, input *component.Input, t *component.Transform) {
		compiled, err := p.compiled(ai.Script)
		if err != nil {
			return
		}

		values := map[string]interface{}{
			"ball_x":    ballT.X,
			"ball_y":    ballT.Y,
			"ball_vx":   ballV.X,
			"ball_vy":   ballV.Y,
			"paddle_x":  t.X,
			"paddle_y":  t.Y,
			"dead_zone": ai.DeadZone,
		}
		for name, v := range values {
			if err := compiled.Set(name, v); err != nil {
				log.Printf("paddle ai: entity %s set %s: %v", e, name, err)
				return
			}
		}
		if err := compiled.Run(); err != nil {
			log.Printf("paddle ai: entity %s run %s: %v", e, ai.Script, err)
			return
		}

		dir := compiled.Get("direction").Int()
		input.Up = dir > 0
		input.Down = dir < 0
	})
}

func (p *PaddleAISystem) compiled(name string) (*tengo.Compiled, error) {
	if c, ok := p.scripts[name]; ok {
		return c, nil
	}
	if p.failed[name] {
		return nil, fmt.Errorf("paddle ai: script %q failed to compile", name)
	}

	c, err := compilePaddleScript(name)
	if err != nil {
		p.failed[name] = true
		log.Printf("paddle ai: %v", err)
		return nil, err
	}
	p.scripts[name] = c
	return c, nil
}

func compilePaddleScript(name string) (*tengo.Compiled, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("load script %q: %w", name, err)
	}

	script := tengo.NewScript(src)
	for _, in := range paddleScriptInputs {
		if err := script.Add(in, 0.0); err != nil {
			return nil, fmt.Errorf("declare %s: %w", in, err)
		}
	}
	if err := script.Add("direction", 0); err != nil {
		return nil, fmt.Errorf("declare direction: %w", err)
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile script %q: %w", name, err)
	}
	if !compiled.IsDefined("direction") {
		return nil, fmt.Errorf("script %q does not set direction", name)
	}
	return compiled, nil
}
