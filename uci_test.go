package main

import (
	"bytes"
	"strings"
	"testing"

	"unimax-chess/engine"

	"github.com/rs/zerolog"
)

func runUCI(t *testing.T, script ...string) []string {
	t.Helper()
	var out bytes.Buffer
	cfg := engine.Config{Depth: 1, Seed: 7, Logger: zerolog.Nop()}
	uciLoop(strings.NewReader(strings.Join(script, "\n")+"\n"), &out, cfg)
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func lastLine(lines []string) string { return lines[len(lines)-1] }

func TestUCIHandshake(t *testing.T) {
	lines := runUCI(t, "uci", "isready", "quit")
	if lines[len(lines)-2] != "uciok" || lastLine(lines) != "readyok" {
		t.Fatalf("unexpected handshake: %q", lines)
	}
}

func TestUCIGoFromStartpos(t *testing.T) {
	lines := runUCI(t, "position startpos moves e2e4", "go depth 2")
	if !strings.HasPrefix(lines[0], "info depth 2 score ") {
		t.Fatalf("expected info line, got %q", lines[0])
	}
	best := strings.Fields(lastLine(lines))
	if len(best) != 2 || best[0] != "bestmove" || len(best[1]) != 4 {
		t.Fatalf("expected bestmove, got %q", lastLine(lines))
	}
	// e2e4 was played by side A, so side B answers from rows 6 or 7.
	if best[1][1] != '7' && best[1][1] != '8' {
		t.Fatalf("expected a side B move, got %s", best[1])
	}
}

func TestUCIGameOverReportsNone(t *testing.T) {
	lines := runUCI(t, "position fen 4k3/8/8/8/8/8/8/4R1K1 w moves e1e8", "go")
	if lastLine(lines) != "bestmove (none)" {
		t.Fatalf("expected bestmove (none), got %q", lines)
	}
}

func TestUCIPlayAppliesMove(t *testing.T) {
	lines := runUCI(t, "play", "d")
	var fen string
	var seen []string
	for _, l := range lines {
		if strings.HasPrefix(l, "Fen: ") {
			fen = strings.TrimPrefix(l, "Fen: ")
		}
		if strings.HasPrefix(l, "Seen: ") {
			seen = append(seen, strings.TrimPrefix(l, "Seen: "))
		}
	}
	if !strings.Contains(fen, " b ") {
		t.Fatalf("side B should be to move after play, fen %q", fen)
	}
	if len(seen) != 1 || seen[0] != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR" {
		t.Fatalf("expected the start board in the repetition set, got %q", seen)
	}
}

func TestUCIRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"position fen 8/8/8 w":           "info string",
		"position startpos moves e2e5":   "info string",
		"go depth -1":                    "info string",
		"go depth":                       "info string",
		"setoption name Depth value abc": "info string Invalid value",
		"setoption name Colour value 1":  "info string Unknown option",
		"frobnicate":                     "info string Unknown command: frobnicate",
	}
	for cmd, want := range cases {
		lines := runUCI(t, cmd)
		if !strings.HasPrefix(lastLine(lines), want) {
			t.Errorf("%q: expected %q, got %q", cmd, want, lastLine(lines))
		}
	}
}

func TestUCISetoptionDepth(t *testing.T) {
	lines := runUCI(t, "setoption name Depth value 2", "go")
	if !strings.HasPrefix(lines[0], "info depth 2 ") {
		t.Fatalf("expected depth 2 search, got %q", lines[0])
	}
}

func TestParseOption(t *testing.T) {
	name, value, ok := parseOption(strings.Fields("name Search Depth value 3"))
	if !ok || name != "Search Depth" || value != "3" {
		t.Fatalf("got %q %q %v", name, value, ok)
	}
	if _, _, ok := parseOption(strings.Fields("name value 3")); ok {
		t.Fatalf("empty option name should be rejected")
	}
}

func BenchmarkUCIGo(b *testing.B) {
	cfg := engine.Config{Depth: 2, Seed: 1, Logger: zerolog.Nop()}
	for i := 0; i < b.N; i++ {
		var out bytes.Buffer
		uciLoop(strings.NewReader("position startpos\ngo depth 2\n"), &out, cfg)
	}
}
