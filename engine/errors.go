package engine

import "errors"

var (
	ErrNoLegalMoves = errors.New("no legal moves")
	ErrGameOver     = errors.New("game over")
	ErrInvalidDepth = errors.New("invalid search depth")
	ErrEmptySquare  = errors.New("no piece on origin square")
	ErrIllegalMove  = errors.New("illegal move")
)
