package engine

import (
	"fmt"
	"iter"

	mg "unimax-chess/unimaxmg"

	"golang.org/x/exp/rand"
)

// Position owns a board and its evaluation value. The value is computed once
// at construction; Apply only subtracts captured material from it.
type Position struct {
	board mg.Board
	value float64
}

// NewPosition wraps a board and evaluates it.
func NewPosition(b mg.Board) *Position {
	p := &Position{board: b}
	p.value = p.Evaluate()
	return p
}

// Board returns a copy of the grid.
func (p *Position) Board() mg.Board { return p.board }

// Value is the running evaluation: the static score at construction minus
// any material captured since.
func (p *Position) Value() float64 { return p.value }

// Evaluate computes the static score of the current board.
func (p *Position) Evaluate() float64 { return Evaluate(&p.board) }

// IsGameOver reports whether a king has been captured.
func (p *Position) IsGameOver() bool { return isGameOver(&p.board) }

// LegalMoves yields the moves of side in row-major origin order.
func (p *Position) LegalMoves(side mg.Side) iter.Seq[mg.Move] {
	return p.board.Moves(side)
}

// Apply moves the piece on m.From to m.To, overwriting the destination, and
// returns the captured piece (mg.Empty if none). Legality is not checked.
func (p *Position) Apply(m mg.Move) (mg.Piece, error) {
	captured, err := p.board.MovePiece(m)
	if err != nil {
		return mg.Empty, fmt.Errorf("apply %s: %w", m, err)
	}
	if captured != mg.Empty {
		p.value -= float64(captured.Value())
	}
	return captured, nil
}

// Clone returns an independent position over a copy of the board. The value
// is re-evaluated from the board, so a live position whose value drifted
// through captures yields a clone scored afresh.
func (p *Position) Clone() *Position {
	return NewPosition(p.board)
}

// Successors yields every legal move of side paired with the position that
// results from it. Moves are shuffled with rng before the first yield.
func (p *Position) Successors(side mg.Side, rng *rand.Rand) iter.Seq2[mg.Move, *Position] {
	return func(yield func(mg.Move, *Position) bool) {
		var moves []mg.Move
		for m := range p.LegalMoves(side) {
			moves = append(moves, m)
		}
		rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })

		for _, m := range moves {
			child := p.Clone()
			// Moves come from the generator, so they are always on the board.
			_, _ = child.Apply(m)
			if !yield(m, child) {
				return
			}
		}
	}
}
