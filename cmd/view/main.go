//go:build ebiten

// Command view shows a Life-family automaton in a window with a parameter
// panel. Space pauses, N steps once, R restarts the seed, X draws a new
// seed and S saves a snapshot.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"ndlife/internal/app"
	"ndlife/internal/config"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	game, err := app.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	w, h := game.WindowSize()
	ebiten.SetWindowTitle(game.Title())
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
