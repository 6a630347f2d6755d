package unimaxmg

import "errors"

var (
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	ErrInvalidMove = errors.New("invalid move notation")
	ErrInvalidFEN  = errors.New("invalid FEN")
)
