package system

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
)

// KeyPressed reports whether a key is held this frame.
type KeyPressed func(ebiten.Key) bool

// InputSystem polls each keyboard-driven paddle's key pair.
type InputSystem struct {
	pressed KeyPressed
}

func NewInputSystem() *InputSystem {
	return &InputSystem{pressed: ebiten.IsKeyPressed}
}

// NewInputSystemWith polls keys through pressed instead of the live keyboard.
func NewInputSystemWith(pressed KeyPressed) *InputSystem {
	return &InputSystem{pressed: pressed}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil || i.pressed == nil {
		return
	}

	ecs.ForEach2(w, component.PaddleComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, paddle *component.Paddle, input *component.Input) {
		if ecs.Has(w, e, component.PaddleAIComponent.Kind()) {
			return
		}
		input.Up = i.isPressed(paddle.UpKey)
		input.Down = i.isPressed(paddle.DownKey)
	})
}

func (i *InputSystem) isPressed(name string) bool {
	key, ok := KeyByName(name)
	if !ok {
		return false
	}
	return i.pressed(key)
}

// KeyByName resolves the key names used in paddle prefabs.
func KeyByName(name string) (ebiten.Key, bool) {
	key, ok := keyNames[strings.ToUpper(strings.TrimSpace(name))]
	return key, ok
}

var keyNames = map[string]ebiten.Key{
	"A": ebiten.KeyA, "B": ebiten.KeyB, "C": ebiten.KeyC, "D": ebiten.KeyD,
	"E": ebiten.KeyE, "F": ebiten.KeyF, "G": ebiten.KeyG, "H": ebiten.KeyH,
	"I": ebiten.KeyI, "J": ebiten.KeyJ, "K": ebiten.KeyK, "L": ebiten.KeyL,
	"M": ebiten.KeyM, "N": ebiten.KeyN, "O": ebiten.KeyO, "P": ebiten.KeyP,
	"Q": ebiten.KeyQ, "R": ebiten.KeyR, "S": ebiten.KeyS, "T": ebiten.KeyT,
	"U": ebiten.KeyU, "V": ebiten.KeyV, "W": ebiten.KeyW, "X": ebiten.KeyX,
	"Y": ebiten.KeyY, "Z": ebiten.KeyZ,
	"UP":   ebiten.KeyArrowUp,
	"DOWN": ebiten.KeyArrowDown,
}
