package unimaxmg

import "fmt"

// Move is an (origin, destination) pair.
type Move struct {
	From Square
	To   Square
}

// NoMove is returned alongside errors when no move could be chosen. It is
// never a valid move since both squares are off the board.
var NoMove = Move{From: Square{-1, -1}, To: Square{-1, -1}}

// InBounds reports whether both squares lie on the board.
func (m Move) InBounds() bool { return m.From.InBounds() && m.To.InBounds() }

// String produces coordinate notation (e.g. "e2e4"); NoMove renders as "(none)".
func (m Move) String() string {
	if m == NoMove {
		return "(none)"
	}
	return m.From.String() + m.To.String()
}

// ParseMove parses coordinate notation. A trailing promotion letter is
// tolerated for compatibility with UCI front ends and ignored.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	return Move{From: from, To: to}, nil
}
