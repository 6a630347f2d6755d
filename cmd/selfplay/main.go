// Command selfplay lets the unimax engine play both sides until a king falls,
// a side runs out of unseen moves, or the ply cap is reached.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"unimax-chess/engine"
	mg "unimax-chess/unimaxmg"

	"github.com/rs/zerolog"
)

func main() {
	depth := flag.Int("depth", engine.DefaultDepth, "search depth for both sides")
	maxPlies := flag.Int("plies", 200, "stop after this many plies")
	seed := flag.Uint64("seed", 0, "random seed (0 picks one from the clock)")
	fen := flag.String("fen", mg.FENStartPos, "starting position")
	show := flag.Bool("board", false, "print the board after every ply")
	level := flag.String("log-level", "warn", "zerolog level for stderr output")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	game, err := engine.NewGameFromFEN(*fen, engine.Config{Depth: *depth, Seed: *seed, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad fen: %v\n", err)
		os.Exit(2)
	}

	ply := 0
	for ; ply < *maxPlies; ply++ {
		side := game.SideToMove()
		m, err := game.PlayTurn(game.Depth())
		if errors.Is(err, engine.ErrGameOver) {
			break
		}
		if errors.Is(err, engine.ErrNoLegalMoves) {
			fmt.Printf("side %s has no unseen moves\n", side)
			break
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("%3d. %s %s  value %g\n", ply+1, side, m, game.Value())
		if *show {
			fmt.Print(game.Board())
		}
		if game.IsGameOver() {
			ply++
			break
		}
	}

	captured := game.Captured()
	fmt.Printf("plies: %d captures: %d final fen: %s\n", ply, len(captured), game.FEN())
	if w, ok := game.Winner(); ok {
		fmt.Printf("winner: side %s\n", w)
	} else {
		fmt.Println("no winner")
	}
}
