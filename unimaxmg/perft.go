package unimaxmg

// Perft counts leaf nodes of the move tree to the given depth, sides
// alternating from side. A board with a missing king is a terminal node.
func Perft(b Board, side Side, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	if b.KingCount() < 2 {
		return 1
	}
	var nodes uint64
	for m := range b.Moves(side) {
		child := b
		child.apply(m)
		if depth == 1 {
			nodes++
			continue
		}
		nodes += Perft(child, side.Other(), depth-1)
	}
	return nodes
}

// PerftDivide returns the perft count below each root move.
func PerftDivide(b Board, side Side, depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	if depth <= 0 {
		return out
	}
	for m := range b.Moves(side) {
		child := b
		child.apply(m)
		out[m] = Perft(child, side.Other(), depth-1)
	}
	return out
}
