package engine

import (
	"fmt"
	"math"
	"time"

	mg "unimax-chess/unimaxmg"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// noValue is the value of a node before any child reported back.
const noValue = -math.MaxFloat64

// SearchStats counts what a single BestMove call did.
type SearchStats struct {
	Nodes       uint64 // nodes visited, root included
	Leaves      uint64 // nodes scored by static evaluation
	Cutoffs     uint64 // early exits that abandoned remaining siblings
	Repetitions uint64 // successors skipped because the real game already saw them
	Elapsed     time.Duration
}

// node is one hypothetical position in the tree. Parent links are the
// recursion itself: search receives the parent node as an argument.
type node struct {
	pos   *Position
	side  mg.Side // side to move at this node
	move  mg.Move // move that produced this node, NoMove at the root
	value float64
	best  mg.Move
	depth int
}

// Searcher runs the unimax tree search. Every node, whichever side is to
// move, keeps the greatest value reported by its children, so both sides are
// modelled as maximising the same absolute score.
//
// A Searcher is not safe for concurrent use.
type Searcher struct {
	rng   *rand.Rand
	log   zerolog.Logger
	stats SearchStats

	limit int
	seen  *RepetitionSet
}

// NewSearcher returns a searcher that shuffles successors with rng.
func NewSearcher(rng *rand.Rand, logger zerolog.Logger) *Searcher {
	return &Searcher{rng: rng, log: logger}
}

// Stats reports the counters of the most recent search.
func (s *Searcher) Stats() SearchStats { return s.stats }

// BestMove searches pos for side to the given depth and returns the chosen
// move with its backed-up value. Successor boards contained in seen are never
// explored. Depth 0 behaves like depth 1: the root is always expanded once.
//
// pos is only read; successors are built on clones.
func (s *Searcher) BestMove(pos *Position, seen *RepetitionSet, side mg.Side, depth int) (mg.Move, float64, error) {
	if depth < 0 {
		return mg.NoMove, 0, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	if pos.IsGameOver() {
		return mg.NoMove, 0, ErrGameOver
	}
	if seen == nil {
		seen = NewRepetitionSet()
	}

	s.stats = SearchStats{}
	s.limit = depth
	s.seen = seen
	defer func() { s.seen = nil }()

	start := time.Now()
	root := &node{pos: pos, side: side, move: mg.NoMove, value: noValue, best: mg.NoMove}
	s.search(root, nil)
	s.stats.Elapsed = time.Since(start)

	s.log.Debug().
		Str("side", side.String()).
		Int("depth", depth).
		Str("move", root.best.String()).
		Float64("value", root.value).
		Uint64("nodes", s.stats.Nodes).
		Uint64("leaves", s.stats.Leaves).
		Uint64("cutoffs", s.stats.Cutoffs).
		Uint64("repetitions", s.stats.Repetitions).
		Dur("elapsed", s.stats.Elapsed).
		Msg("search complete")

	if root.best == mg.NoMove {
		return mg.NoMove, 0, fmt.Errorf("side %s: %w", side, ErrNoLegalMoves)
	}
	return root.best, root.value, nil
}

func (s *Searcher) isLeaf(n *node) bool {
	if n.pos.IsGameOver() {
		return true
	}
	return n.depth > 0 && n.depth >= s.limit
}

func (s *Searcher) search(n, parent *node) {
	s.stats.Nodes++

	if s.isLeaf(n) {
		s.stats.Leaves++
		n.value = n.pos.Value()
	} else {
		for m, childPos := range n.pos.Successors(n.side, s.rng) {
			if s.seen.Contains(childPos.board) {
				s.stats.Repetitions++
				continue
			}
			child := node{
				pos:   childPos,
				side:  n.side.Other(),
				move:  m,
				value: noValue,
				best:  mg.NoMove,
				depth: n.depth + 1,
			}
			s.search(&child, n)

			// The node's own static value is compared with the parent's
			// best-so-far search value, not with another search value.
			if parent != nil && n.pos.Value() >= parent.value {
				s.stats.Cutoffs++
				break
			}
		}
	}

	updateParent(n, parent)
}

// updateParent adopts n's value and move into parent when strictly greater.
func updateParent(n, parent *node) {
	if parent != nil && n.value > parent.value {
		parent.value = n.value
		parent.best = n.move
	}
}
