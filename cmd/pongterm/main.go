package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/pong/ecs"
	"github.com/milk9111/pong/ecs/component"
	"github.com/milk9111/pong/ecs/entity"
	"github.com/milk9111/pong/match"
)

const (
	frameInterval = 16 * time.Millisecond
	// Terminals report presses, not releases, so a press holds the key for this long.
	keyHold       = 120 * time.Millisecond

	sampleRate = beep.SampleRate(44100)
)

var runeKeys = map[rune]ebiten.Key{
	'w': ebiten.KeyW, 's': ebiten.KeyS,
	'k': ebiten.KeyK, 'j': ebiten.KeyJ,
}

var clipTones = map[string]float64{
	"paddle_hit": 880,
	"wall_hit":   440,
}

type Game struct {
	screen        tcell.Screen
	width, height int

	match *match.Match
	held  map[ebiten.Key]time.Time
	now   time.Time

	halfWidth, halfHeight  float64
	lastScore1, lastScore2 int

	audioInit bool
}

func NewGame(opts match.Options) (*Game, error) {
	g := &Game{
		held: make(map[ebiten.Key]time.Time),
		now:  time.Now(),
	}
	opts.Keys = g.isHeld

	m, err := match.New(opts)
	if err != nil {
		return nil, err
	}
	g.match = m
	g.halfWidth, g.halfHeight = entity.FieldBounds(m.World)

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	g.screen = screen
	g.width, g.height = screen.Size()

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("audio: disabled: %v", err)
	} else {
		g.audioInit = true
	}

	return g, nil
}

func (g *Game) isHeld(k ebiten.Key) bool {
	until, ok := g.held[k]
	return ok && g.now.Before(until)
}

func (g *Game) beep(freq float64, d time.Duration) {
	if !g.audioInit {
		return
	}
	tone, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), tone))
}

// handleInput returns false when the player quits.
func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			g.held[ebiten.KeyK] = time.Now().Add(keyHold)
		case tcell.KeyDown:
			g.held[ebiten.KeyJ] = time.Now().Add(keyHold)
		case tcell.KeyRune:
			r := ev.Rune()
			switch r {
			case 'q':
				return false
			case 'r':
				g.match.Reset()
				return true
			}
			if key, ok := runeKeys[r]; ok {
				g.held[key] = time.Now().Add(keyHold)
			}
		}
	case *tcell.EventResize:
		g.width, g.height = g.screen.Size()
		g.screen.Sync()
	}
	return true
}

func (g *Game) update(dt float64) {
	g.now = time.Now()
	g.match.Update(dt)

	ball, ok := g.match.World.First(component.BallComponent.Kind())
	if ok {
		if a, ok := ecs.Get(g.match.World, ball, component.AudioComponent.Kind()); ok {
			for i, name := range a.Names {
				if i < len(a.Play) && a.Play[i] {
					g.beep(clipTones[name], 40*time.Millisecond)
				}
			}
		}
	}

	s1, s2, _ := g.match.Score()
	if s1 != g.lastScore1 || s2 != g.lastScore2 {
		g.beep(220, 200*time.Millisecond)
		g.lastScore1, g.lastScore2 = s1, s2
	}
}

func (g *Game) toCell(x, y float64) (int, int) {
	cx := (x + g.halfWidth) / (2 * g.halfWidth) * float64(g.width-1)
	cy := (g.halfHeight - y) / (2 * g.halfHeight) * float64(g.height-2)
	return int(cx + 0.5), int(cy+0.5) + 1
}

func (g *Game) fillRect(x, y, hw, hh float64, r rune, style tcell.Style) {
	x0, y0 := g.toCell(x-hw, y+hh)
	x1, y1 := g.toCell(x+hw, y-hh)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			g.screen.SetContent(cx, cy, r, nil, style)
		}
	}
}

func (g *Game) draw() {
	g.screen.Clear()
	w := g.match.World

	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	paddleStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	ballStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	ecs.ForEach3(w, component.WallComponent.Kind(), component.TransformComponent.Kind(), component.BoxColliderComponent.Kind(), func(_ ecs.Entity, _ *component.Wall, t *component.Transform, box *component.BoxCollider) {
		g.fillRect(t.X, t.Y, box.HalfWidth, box.HalfHeight, '░', wallStyle)
	})
	ecs.ForEach3(w, component.PaddleComponent.Kind(), component.TransformComponent.Kind(), component.BoxColliderComponent.Kind(), func(_ ecs.Entity, _ *component.Paddle, t *component.Transform, box *component.BoxCollider) {
		g.fillRect(t.X, t.Y, box.HalfWidth, box.HalfHeight, '█', paddleStyle)
	})
	ecs.ForEach2(w, component.BallComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Ball, t *component.Transform) {
		cx, cy := g.toCell(t.X, t.Y)
		g.screen.SetContent(cx, cy, '●', nil, ballStyle)
	})

	s1, s2, winner := g.match.Score()
	status := fmt.Sprintf(" %d : %d   W/S  K/J  r reset  q quit", s1, s2)
	if winner != 0 {
		status = fmt.Sprintf(" %d : %d   player %d wins, r to play again", s1, s2, winner)
	}
	for i, r := range status {
		g.screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Bold(true))
	}

	g.screen.Show()
}

func (g *Game) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- g.screen.PollEvent()
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if ev == nil || !g.handleInput(ev) {
				return
			}
		case now := <-ticker.C:
			g.update(now.Sub(last).Seconds())
			last = now
			g.draw()
		}
	}
}

func (g *Game) cleanup() {
	if g.audioInit {
		speaker.Close()
	}
	g.screen.Fini()
}

func main() {
	physics := flag.Bool("physics", false, "simulate the ball with the Chipmunk physics engine")
	cpu := flag.Bool("cpu", false, "let the script in game.yaml drive the right paddle")
	seed := flag.Int64("seed", 0, "seed for the bounce perturbation (0 = time based)")
	flag.Parse()

	game, err := NewGame(match.Options{Physics: *physics, CPU: *cpu, Seed: *seed})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer game.cleanup()

	game.run()
}
