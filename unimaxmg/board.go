package unimaxmg

import (
	"fmt"
	"strings"
)

const (
	Rows = 8
	Cols = 8
)

// Square is a (row, column) coordinate. Row 0 is side A's back rank, column 0
// is the a-file.
type Square struct {
	Row int
	Col int
}

// Sq is shorthand for Square{row, col}.
func Sq(row, col int) Square { return Square{Row: row, Col: col} }

// InBounds reports whether the square lies on the board.
func (s Square) InBounds() bool {
	return 0 <= s.Row && s.Row < Rows && 0 <= s.Col && s.Col < Cols
}

// String renders the square in coordinate notation, e.g. (0,4) -> "e1".
func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return string([]byte{'a' + byte(s.Col), '1' + byte(s.Row)})
}

// ParseSquare converts "e2" into Square{1, 4}.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: square %q", ErrInvalidMove, s)
	}
	file := s[0]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	sq := Square{Row: int(s[1]) - '1', Col: int(file) - 'a'}
	if !sq.InBounds() {
		return Square{}, fmt.Errorf("%w: square %q", ErrOutOfBounds, s)
	}
	return sq, nil
}

// Board is an 8x8 row-major grid. It is a value type: assignment copies the
// grid, and two boards compare equal with == iff every square matches, so a
// Board doubles as the immutable snapshot stored in repetition sets.
type Board [Rows][Cols]Piece

var backRank = [Cols]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard chess starting arrangement.
func NewBoard() Board {
	var b Board
	for c := 0; c < Cols; c++ {
		b[0][c] = NewPiece(SideA, backRank[c])
		b[1][c] = NewPiece(SideA, Pawn)
		b[6][c] = NewPiece(SideB, Pawn)
		b[7][c] = NewPiece(SideB, backRank[c])
	}
	return b
}

// At returns the content of sq, or ErrOutOfBounds.
func (b *Board) At(sq Square) (Piece, error) {
	if !sq.InBounds() {
		return Empty, fmt.Errorf("%w: %s", ErrOutOfBounds, sq)
	}
	return b[sq.Row][sq.Col], nil
}

// Set places p on sq (Empty clears it).
func (b *Board) Set(sq Square, p Piece) error {
	if !sq.InBounds() {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, sq)
	}
	b[sq.Row][sq.Col] = p
	return nil
}

// KingCount returns the number of kings of either side on the board.
func (b *Board) KingCount() int {
	n := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if b[r][c].Kind() == King {
				n++
			}
		}
	}
	return n
}

// HasKing reports whether side still has a king.
func (b *Board) HasKing(side Side) bool {
	k := NewPiece(side, King)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if b[r][c] == k {
				return true
			}
		}
	}
	return false
}

// Material sums the values of every piece on the board.
func (b *Board) Material() int {
	sum := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			sum += b[r][c].Value()
		}
	}
	return sum
}

// apply moves the piece without any checks and returns what was captured.
func (b *Board) apply(m Move) Piece {
	captured := b[m.To.Row][m.To.Col]
	b[m.To.Row][m.To.Col] = b[m.From.Row][m.From.Col]
	b[m.From.Row][m.From.Col] = Empty
	return captured
}

// MovePiece moves whatever stands on m.From to m.To, overwriting the
// destination, and returns the overwritten piece.
func (b *Board) MovePiece(m Move) (Piece, error) {
	if !m.InBounds() {
		return Empty, fmt.Errorf("%w: %s", ErrOutOfBounds, m)
	}
	return b.apply(m), nil
}

// Letters renders the grid as FEN letters, one string per row, row 0 first.
func (b *Board) Letters() [Rows]string {
	var out [Rows]string
	for r := 0; r < Rows; r++ {
		row := make([]byte, Cols)
		for c := 0; c < Cols; c++ {
			row[c] = b[r][c].Letter()
		}
		out[r] = string(row)
	}
	return out
}

// String draws the board with row 7 on top, the way a board is usually printed.
func (b Board) String() string {
	var sb strings.Builder
	rows := b.Letters()
	for r := Rows - 1; r >= 0; r-- {
		sb.WriteByte('1' + byte(r))
		for c := 0; c < Cols; c++ {
			sb.WriteByte(' ')
			sb.WriteByte(rows[r][c])
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
