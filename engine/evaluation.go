package engine

import mg "unimax-chess/unimaxmg"

// MoveValueDenominator scales the mobility term: every available move of
// either side is worth 1/MoveValueDenominator of a pawn.
const MoveValueDenominator = 10

// Evaluate returns the static score of a board: 0 once the game is over,
// otherwise total material of both sides plus the combined move count of both
// sides divided by MoveValueDenominator. The score is absolute; it does not
// favour either side.
func Evaluate(b *mg.Board) float64 {
	if isGameOver(b) {
		return 0
	}
	mobility := b.MoveCount(mg.SideA) + b.MoveCount(mg.SideB)
	return float64(b.Material()) + float64(mobility)/MoveValueDenominator
}

// A game is over when fewer than two kings remain.
func isGameOver(b *mg.Board) bool {
	return b.KingCount() < 2
}
