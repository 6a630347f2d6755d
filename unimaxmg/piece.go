package unimaxmg

// Side identifies one of the two players. SideA starts on rows 0-1 and moves
// toward higher rows; SideB starts on rows 6-7.
type Side uint8

const (
	SideA Side = 0
	SideB Side = 1
)

// Other returns the opposing side.
func (s Side) Other() Side { return s ^ 1 }

func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

// ParseSide accepts "a"/"b" as well as the conventional "w"/"white" and "b"/"black".
func ParseSide(s string) (Side, bool) {
	switch s {
	case "A", "a", "w", "white", "W":
		return SideA, true
	case "B", "b", "black":
		return SideB, true
	}
	return SideA, false
}

// Kind is a colorless piece type.
type Kind uint8

const (
	NoKind Kind = 0
	Pawn   Kind = 1
	Knight Kind = 2
	Bishop Kind = 3
	Rook   Kind = 4
	Queen  Kind = 5
	King   Kind = 6
)

// Material values, fixed per kind.
const (
	PawnValue   = 1
	KnightValue = 3
	BishopValue = 3
	RookValue   = 5
	QueenValue  = 9
	KingValue   = 200
)

var kindValue = [7]int{0, PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// Value returns the material value of the kind, 0 for NoKind.
func (k Kind) Value() int { return kindValue[k] }

func (k Kind) String() string {
	return [...]string{"none", "pawn", "knight", "bishop", "rook", "queen", "king"}[k]
}

// Piece is the content of a square. The zero value is an empty square.
//
// Side B pieces are encoded as (kind | 8) so that
// - piece & 7 gives the kind in [1..6]
// - piece & 8 != 0 indicates side B
type Piece uint8

const Empty Piece = 0

// NewPiece combines a side and a kind. NoKind yields Empty.
func NewPiece(side Side, kind Kind) Piece {
	if kind == NoKind || kind > King {
		return Empty
	}
	return Piece(kind) | Piece(side)<<3
}

// Kind returns the colorless kind of the piece.
func (p Piece) Kind() Kind { return Kind(p & 7) }

// Side returns the owner. Empty reports SideA; check IsEmpty first.
func (p Piece) Side() Side { return Side(p>>3) & 1 }

func (p Piece) IsEmpty() bool { return p == Empty }

// Value returns the material value of the piece, 0 for an empty square.
func (p Piece) Value() int { return p.Kind().Value() }

// IsOpponentOf reports whether p holds a piece owned by the side opposite to side.
func (p Piece) IsOpponentOf(side Side) bool {
	return p != Empty && p.Side() != side
}

var pieceLetters = [7]byte{'.', 'P', 'N', 'B', 'R', 'Q', 'K'}

// Letter returns the FEN letter of the piece: uppercase for side A, lowercase
// for side B, '.' for an empty square.
func (p Piece) Letter() byte {
	if p == Empty {
		return '.'
	}
	c := pieceLetters[p.Kind()]
	if p.Side() == SideB {
		c += 'a' - 'A'
	}
	return c
}

func (p Piece) String() string { return string(p.Letter()) }

// PieceFromLetter is the inverse of Letter.
func PieceFromLetter(c byte) Piece {
	side := SideA
	if c >= 'a' && c <= 'z' {
		side = SideB
		c -= 'a' - 'A'
	}
	for k := Pawn; k <= King; k++ {
		if pieceLetters[k] == c {
			return NewPiece(side, k)
		}
	}
	return Empty
}
