package main

import (
	"fmt"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/pong/common"
	"github.com/milk9111/pong/ecs/system"
	"github.com/milk9111/pong/match"
	"github.com/milk9111/pong/prefabs"
	"golang.org/x/image/colornames"
)

type Game struct {
	frames int

	match   *match.Match
	render  *system.RenderSystem
	watcher *prefabs.Watcher
	debug   bool

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI
	scoreUI *ScoreUI
}

func NewGame(opts match.Options, watch, debug bool) (*Game, error) {
	m, err := match.New(opts)
	if err != nil {
		return nil, err
	}

	g := &Game{
		match:  m,
		render: &system.RenderSystem{Debug: debug},
		debug:  debug,
	}
	g.pauseUI = NewPauseUI(g)
	if g.scoreUI, err = NewScoreUI(); err != nil {
		return nil, err
	}

	if watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, prefabs.Dir+"/scripts")
		if err != nil {
			log.Printf("watch: disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if err := g.match.Close(); err != nil {
		log.Printf("audio: %v", err)
	}
}

func (g *Game) Update() error {
	g.frames++

	if g.quit || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.match.Reset()
	}
	g.pollWatcher()

	g.match.Update(1 / float64(ebiten.TPS()))
	g.scoreUI.Update(g.match)
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	files, errs := g.watcher.Poll()
	for _, err := range errs {
		log.Printf("watch: %v", err)
	}
	if len(files) == 0 {
		return
	}
	next, err := g.match.Reload()
	if err != nil {
		log.Printf("watch: reload after %v: %v", files, err)
		return
	}
	if err := g.match.Close(); err != nil {
		log.Printf("watch: %v", err)
	}
	g.match = next
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	g.render.Draw(g.match.World, screen)
	g.scoreUI.Draw(screen)

	if g.debug {
		if g.match.Physics != nil {
			system.DrawPhysicsDebug(g.match.Physics.Space(), screen)
		}
		system.DrawMatchDebug(g.match.World, screen)
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()))
	}

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}
