package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"unimax-chess/engine"
	mg "unimax-chess/unimaxmg"

	"github.com/rs/zerolog"
)

func main() {
	depth := flag.Int("depth", engine.DefaultDepth, "default search depth")
	seed := flag.Uint64("seed", 0, "random seed (0 picks one from the clock)")
	level := flag.String("log-level", "warn", "zerolog level for stderr output")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	uciLoop(os.Stdin, os.Stdout, engine.Config{Depth: *depth, Seed: *seed, Logger: logger})
}

// uciLoop reads commands from in until "quit" or EOF. Output follows the UCI
// conventions closely enough for a GUI to drive the engine, but search is
// synchronous: "go" returns only once the best move is known.
func uciLoop(in io.Reader, out io.Writer, cfg engine.Config) {
	scanner := bufio.NewScanner(in)
	game := engine.NewGame(cfg)
	depth := cfg.Depth

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Fprintln(out, "id name Unimax")
			fmt.Fprintln(out, "id author unimax-chess")
			fmt.Fprintf(out, "option name Depth type spin default %d min 0 max 8\n", depth)
			fmt.Fprintln(out, "option name Seed type spin default 0 min 0 max 2147483647")
			fmt.Fprintln(out, "uciok")
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "ucinewgame":
			game = engine.NewGame(cfg)
		case "quit":
			return
		case "position":
			g, err := parsePosition(tokens[1:], cfg)
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				continue
			}
			game = g
		case "go", "play":
			d, err := parseDepth(tokens[1:], depth)
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				continue
			}
			side := game.SideToMove()
			m, v, err := game.BestMoveValue(side, d)
			stats := game.SearchStats()
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				if errors.Is(err, engine.ErrNoLegalMoves) || errors.Is(err, engine.ErrGameOver) {
					fmt.Fprintln(out, "bestmove", mg.NoMove)
				}
				continue
			}
			fmt.Fprintf(out, "info depth %d score %g nodes %d time %d\n", d, v, stats.Nodes, stats.Elapsed.Milliseconds())
			if strings.EqualFold(tokens[0], "play") {
				if err := game.Apply(m); err != nil {
					fmt.Fprintln(out, "info string", err)
					continue
				}
			}
			fmt.Fprintln(out, "bestmove", m)
		case "random":
			m, err := game.RandomMove(game.SideToMove())
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				fmt.Fprintln(out, "bestmove", mg.NoMove)
				continue
			}
			fmt.Fprintln(out, "bestmove", m)
		case "d":
			fmt.Fprint(out, game.Board())
			fmt.Fprintln(out, "Fen:", game.FEN())
			fmt.Fprintf(out, "Value: %g\n", game.Value())
			fmt.Fprintln(out, "Repetitions:", game.Repetitions())
			for _, placement := range game.SeenPlacements() {
				fmt.Fprintln(out, "Seen:", placement)
			}
			if w, ok := game.Winner(); ok {
				fmt.Fprintln(out, "Winner:", w)
			}
		case "setoption":
			name, value, ok := parseOption(tokens[1:])
			if !ok {
				fmt.Fprintln(out, "info string Malformed setoption command")
				continue
			}
			n, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				fmt.Fprintln(out, "info string Invalid value for option", name)
				continue
			}
			switch strings.ToLower(name) {
			case "depth":
				depth = int(n)
				cfg.Depth = depth
			case "seed":
				cfg.Seed = n
			default:
				fmt.Fprintln(out, "info string Unknown option", name)
			}
		default:
			fmt.Fprintln(out, "info string Unknown command:", line)
		}
	}
}

// parsePosition handles "startpos [moves ...]" and "fen <fields> [moves ...]".
func parsePosition(args []string, cfg engine.Config) (*engine.Game, error) {
	if len(args) == 0 {
		return nil, errors.New("malformed position command")
	}
	var (
		game *engine.Game
		rest []string
		err  error
	)
	switch strings.ToLower(args[0]) {
	case "startpos":
		game = engine.NewGame(cfg)
		rest = args[1:]
	case "fen":
		i := 1
		for i < len(args) && strings.ToLower(args[i]) != "moves" {
			i++
		}
		if i == 1 {
			return nil, errors.New("invalid fen position")
		}
		game, err = engine.NewGameFromFEN(strings.Join(args[1:i], " "), cfg)
		if err != nil {
			return nil, err
		}
		rest = args[i:]
	default:
		return nil, errors.New("invalid position subcommand")
	}

	if len(rest) == 0 {
		return game, nil
	}
	if strings.ToLower(rest[0]) != "moves" {
		return nil, fmt.Errorf("unexpected token %q", rest[0])
	}
	for _, s := range rest[1:] {
		m, err := mg.ParseMove(strings.ToLower(s))
		if err != nil {
			return nil, err
		}
		if err := game.Apply(m); err != nil {
			return nil, fmt.Errorf("move %s not playable in %s: %w", s, game.FEN(), err)
		}
	}
	return game, nil
}

// parseDepth reads an optional "depth N" from the arguments of go or play.
func parseDepth(args []string, def int) (int, error) {
	d := def
	for i := 0; i < len(args); i++ {
		switch strings.ToLower(args[i]) {
		case "depth":
			if i+1 >= len(args) {
				return 0, errors.New("malformed go command option depth")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 0 {
				return 0, fmt.Errorf("%w: %s", engine.ErrInvalidDepth, args[i+1])
			}
			d = n
			i++
		case "infinite":
		default:
			return 0, fmt.Errorf("unknown go subcommand %s", args[i])
		}
	}
	return d, nil
}

// parseOption splits "name <id...> value <x>".
func parseOption(args []string) (name, value string, ok bool) {
	if len(args) < 4 || strings.ToLower(args[0]) != "name" {
		return "", "", false
	}
	i := 1
	for i < len(args) && strings.ToLower(args[i]) != "value" {
		i++
	}
	if i == 1 || i+1 >= len(args) {
		return "", "", false
	}
	return strings.Join(args[1:i], " "), args[i+1], true
}
