package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/pong/common"
	"github.com/milk9111/pong/match"
)

func main() {
	physics := flag.Bool("physics", false, "simulate the ball with the Chipmunk physics engine")
	cpu := flag.Bool("cpu", false, "let the script in game.yaml drive the right paddle")
	watch := flag.Bool("watch", false, "reload prefabs when files under prefabs/ change")
	debug := flag.Bool("debug", false, "enable debug mode")
	seed := flag.Int64("seed", 0, "seed for the bounce perturbation (0 = time based)")
	flag.Parse()

	game, err := NewGame(match.Options{Physics: *physics, CPU: *cpu, Audio: true, Seed: *seed}, *watch, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle(game.match.Spec.Title)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
