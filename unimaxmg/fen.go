package unimaxmg

import (
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN reads piece placement and side to move from a FEN string. Castling,
// en passant and clocks are accepted but have no meaning for this engine.
// Side A is white.
func ParseFEN(fen string) (Board, Side, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return Board{}, SideA, fmt.Errorf("%w: empty string", ErrInvalidFEN)
	}
	if err := validatePlacement(fields[0]); err != nil {
		return Board{}, SideA, err
	}
	if len(fields) > 1 && fields[1] != "w" && fields[1] != "b" {
		return Board{}, SideA, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}
	toMove := "w"
	if len(fields) > 1 {
		toMove = fields[1]
	}

	// Only placement and side to move matter here; the remaining fields are
	// normalised so dragontoothmg never sees castling or en passant input.
	dt := dragontoothmg.ParseFen(fields[0] + " " + toMove + " - - 0 1")

	var b Board
	fillFromBitboards(&b, SideA, &dt.White)
	fillFromBitboards(&b, SideB, &dt.Black)
	side := SideA
	if !dt.Wtomove {
		side = SideB
	}
	return b, side, nil
}

// ToFEN renders the board with toMove as the side to move. Castling and en
// passant fields are always "-".
func ToFEN(b Board, toMove Side) string {
	dt := dragontoothmg.Board{
		Wtomove:    toMove == SideA,
		Fullmoveno: 1,
	}
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			p := b[r][c]
			if p == Empty {
				continue
			}
			bbs := &dt.White
			if p.Side() == SideB {
				bbs = &dt.Black
			}
			bit := uint64(1) << uint(r*Cols+c)
			bbs.All |= bit
			switch p.Kind() {
			case Pawn:
				bbs.Pawns |= bit
			case Knight:
				bbs.Knights |= bit
			case Bishop:
				bbs.Bishops |= bit
			case Rook:
				bbs.Rooks |= bit
			case Queen:
				bbs.Queens |= bit
			case King:
				bbs.Kings |= bit
			}
		}
	}
	placement := strings.Fields(dt.ToFen())[0]
	side := "w"
	if toMove == SideB {
		side = "b"
	}
	return placement + " " + side + " - - 0 1"
}

func fillFromBitboards(b *Board, side Side, bbs *dragontoothmg.Bitboards) {
	kinds := [...]struct {
		bb   uint64
		kind Kind
	}{
		{bbs.Pawns, Pawn},
		{bbs.Knights, Knight},
		{bbs.Bishops, Bishop},
		{bbs.Rooks, Rook},
		{bbs.Queens, Queen},
		{bbs.Kings, King},
	}
	for _, k := range kinds {
		for sq := 0; sq < Rows*Cols; sq++ {
			if k.bb&(uint64(1)<<uint(sq)) != 0 {
				b[sq/Cols][sq%Cols] = NewPiece(side, k.kind)
			}
		}
	}
}

// validatePlacement checks the placement field before it reaches
// dragontoothmg, which does not report malformed input.
func validatePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != Rows {
		return fmt.Errorf("%w: expected %d ranks, got %d", ErrInvalidFEN, Rows, len(ranks))
	}
	for i, rank := range ranks {
		width := 0
		for j := 0; j < len(rank); j++ {
			ch := rank[j]
			switch {
			case ch >= '1' && ch <= '8':
				width += int(ch - '0')
			case PieceFromLetter(ch) != Empty:
				width++
			default:
				return fmt.Errorf("%w: unexpected %q in rank %d", ErrInvalidFEN, ch, Rows-i)
			}
		}
		if width != Cols {
			return fmt.Errorf("%w: rank %d covers %d files", ErrInvalidFEN, Rows-i, width)
		}
	}
	return nil
}
