package unimaxmg

import (
	"errors"
	"testing"
)

func TestParseFENStartPos(t *testing.T) {
	b, side, err := ParseFEN(FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN failed for initial position: %v", err)
	}
	if side != SideA {
		t.Fatalf("expected side A to move")
	}
	if b != NewBoard() {
		t.Fatalf("parsed start position differs from NewBoard:\n%s", b)
	}
}

func TestParseFENPlacementOnly(t *testing.T) {
	b, side, err := ParseFEN("4k3/8/8/8/8/8/8/4K3")
	if err != nil {
		t.Fatal(err)
	}
	if side != SideA {
		t.Fatalf("expected default side A")
	}
	if b[0][4] != NewPiece(SideA, King) || b[7][4] != NewPiece(SideB, King) {
		t.Fatalf("kings misplaced:\n%s", b)
	}
	if b.KingCount() != 2 {
		t.Fatalf("expected only two kings")
	}
}

func TestFENRoundTrip(t *testing.T) {
	fen := "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR b - - 0 1"
	b, side, err := ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	if side != SideB {
		t.Fatalf("expected side B to move")
	}
	out := ToFEN(b, side)
	b2, side2, err := ParseFEN(out)
	if err != nil {
		t.Fatalf("re-parse %q: %v", out, err)
	}
	if b2 != b || side2 != side {
		t.Fatalf("round trip mismatch: %q", out)
	}
}

func TestParseFENRejectsMalformed(t *testing.T) {
	for _, fen := range []string{
		"",
		"8/8/8",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x",
	} {
		if _, _, err := ParseFEN(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("ParseFEN(%q): expected ErrInvalidFEN, got %v", fen, err)
		}
	}
}
