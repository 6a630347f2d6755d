package unimaxmg

import (
	"fmt"
	"iter"
)

type offset struct{ dr, dc int }

var (
	knightOffsets = [8]offset{
		{-2, -1}, {-2, 1},
		{2, -1}, {2, 1},
		{-1, -2}, {-1, 2},
		{1, -2}, {1, 2},
	}
	diagonalRays   = [4]offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	orthogonalRays = [4]offset{{1, 0}, {-1, 0}, {0, -1}, {0, 1}}
	queenRays      = [8]offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}, {1, 0}, {-1, 0}, {0, -1}, {0, 1}}
)

// Destinations yields every square the piece standing on from may move to or
// capture on. The board is taken by value, so the sequence keeps reading the
// snapshot it was created from even if the caller's board is later mutated.
// An empty origin yields nothing.
func Destinations(b Board, from Square) (iter.Seq[Square], error) {
	if !from.InBounds() {
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, from)
	}
	return destinations(b, from), nil
}

func destinations(b Board, from Square) iter.Seq[Square] {
	return func(yield func(Square) bool) {
		genDestinations(&b, from, yield)
	}
}

// genDestinations dispatches on the piece kind. It returns false once yield
// asked to stop.
func genDestinations(b *Board, from Square, yield func(Square) bool) bool {
	p := b[from.Row][from.Col]
	switch p.Kind() {
	case Pawn:
		return pawnDestinations(b, from, p.Side(), yield)
	case Knight:
		return stepDestinations(b, from, p.Side(), knightOffsets[:], yield)
	case Bishop:
		return rayDestinations(b, from, p.Side(), diagonalRays[:], yield)
	case Rook:
		return rayDestinations(b, from, p.Side(), orthogonalRays[:], yield)
	case Queen:
		return rayDestinations(b, from, p.Side(), queenRays[:], yield)
	case King:
		return kingDestinations(b, from, p.Side(), yield)
	}
	return true
}

// canLand is the shared step rule: in bounds, not the origin, and either empty
// or held by the opponent.
func canLand(b *Board, from, to Square, side Side) bool {
	if !to.InBounds() || to == from {
		return false
	}
	target := b[to.Row][to.Col]
	return target == Empty || target.Side() != side
}

// Pawns advance two squares only from their starting row with both squares
// empty, one square onto an empty square, and capture diagonally forward.
// Diagonal captures are not generated for a pawn standing on row 0 or row 7.
func pawnDestinations(b *Board, from Square, side Side, yield func(Square) bool) bool {
	startRow, dir := 1, 1
	if side == SideB {
		startRow, dir = 6, -1
	}
	row, col := from.Row, from.Col

	if row == startRow && b[row+2*dir][col] == Empty && b[row+dir][col] == Empty {
		if !yield(Square{row + 2*dir, col}) {
			return false
		}
	}
	if next := row + dir; 0 <= next && next < Rows && b[next][col] == Empty {
		if !yield(Square{next, col}) {
			return false
		}
	}
	if 0 < row && row < Rows-1 {
		if col > 0 && b[row+dir][col-1].IsOpponentOf(side) {
			if !yield(Square{row + dir, col - 1}) {
				return false
			}
		}
		if col < Cols-1 && b[row+dir][col+1].IsOpponentOf(side) {
			if !yield(Square{row + dir, col + 1}) {
				return false
			}
		}
	}
	return true
}

func stepDestinations(b *Board, from Square, side Side, offsets []offset, yield func(Square) bool) bool {
	for _, o := range offsets {
		to := Square{from.Row + o.dr, from.Col + o.dc}
		if canLand(b, from, to, side) && !yield(to) {
			return false
		}
	}
	return true
}

// The king scans its 3x3 neighbourhood row by row; the origin is rejected by canLand.
func kingDestinations(b *Board, from Square, side Side, yield func(Square) bool) bool {
	for r := from.Row - 1; r <= from.Row+1; r++ {
		for c := from.Col - 1; c <= from.Col+1; c++ {
			to := Square{r, c}
			if canLand(b, from, to, side) && !yield(to) {
				return false
			}
		}
	}
	return true
}

// Each ray runs until the first occupied square, which is included only when
// it holds an opponent.
func rayDestinations(b *Board, from Square, side Side, rays []offset, yield func(Square) bool) bool {
	for _, ray := range rays {
		for to := (Square{from.Row + ray.dr, from.Col + ray.dc}); to.InBounds(); to = (Square{to.Row + ray.dr, to.Col + ray.dc}) {
			target := b[to.Row][to.Col]
			if target == Empty {
				if !yield(to) {
					return false
				}
				continue
			}
			if target.Side() != side && !yield(to) {
				return false
			}
			break
		}
	}
	return true
}

// Moves yields every (origin, destination) pair for side, scanning origins in
// row-major order. Like Destinations it reads a snapshot of b.
func (b Board) Moves(side Side) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for r := 0; r < Rows; r++ {
			for c := 0; c < Cols; c++ {
				p := b[r][c]
				if p.IsEmpty() || p.Side() != side {
					continue
				}
				from := Square{r, c}
				ok := genDestinations(&b, from, func(to Square) bool {
					return yield(Move{From: from, To: to})
				})
				if !ok {
					return
				}
			}
		}
	}
}

// MoveCount returns the number of moves available to side.
func (b *Board) MoveCount(side Side) int {
	n := 0
	for range b.Moves(side) {
		n++
	}
	return n
}

// IsLegal reports whether m is one of the moves the piece on m.From can make.
func (b *Board) IsLegal(m Move) bool {
	if !m.InBounds() || b[m.From.Row][m.From.Col].IsEmpty() {
		return false
	}
	for to := range destinations(*b, m.From) {
		if to == m.To {
			return true
		}
	}
	return false
}
