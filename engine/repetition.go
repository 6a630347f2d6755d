package engine

import (
	mg "unimax-chess/unimaxmg"

	"golang.org/x/exp/maps"
)

// RepetitionSet holds the board configurations the real game has passed
// through since the last capture. Captures are irreversible, so nothing seen
// before one can occur again and the set is cleared on every capture.
type RepetitionSet struct {
	seen map[mg.Board]struct{}
}

// NewRepetitionSet returns an empty set.
func NewRepetitionSet() *RepetitionSet {
	return &RepetitionSet{seen: make(map[mg.Board]struct{})}
}

// Record adds a snapshot of b.
func (r *RepetitionSet) Record(b mg.Board) {
	r.seen[b] = struct{}{}
}

// Contains reports whether b was recorded since the last Clear.
func (r *RepetitionSet) Contains(b mg.Board) bool {
	_, ok := r.seen[b]
	return ok
}

// Clear forgets every snapshot.
func (r *RepetitionSet) Clear() {
	clear(r.seen)
}

// Len returns the number of distinct snapshots held.
func (r *RepetitionSet) Len() int { return len(r.seen) }

// Snapshots returns the recorded boards in no particular order.
func (r *RepetitionSet) Snapshots() []mg.Board {
	return maps.Keys(r.seen)
}
