package engine

import (
	"fmt"
	"strings"

	mg "unimax-chess/unimaxmg"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

// Game is the live game: one position, the repetition set of real boards
// since the last capture, and the record of moves played.
//
// A Game is not safe for concurrent use; callers serialise searches and moves.
type Game struct {
	cfg      Config
	rng      *rand.Rand
	searcher *Searcher
	log      zerolog.Logger

	start     mg.Board
	startSide mg.Side
	pos       *Position
	seen      *RepetitionSet
	toMove    mg.Side
	history   []mg.Move
	captured  []mg.Piece
}

// NewGame starts from the standard initial arrangement with side A to move.
func NewGame(cfg Config) *Game {
	g := newGame(cfg)
	g.setup(mg.NewBoard(), mg.SideA)
	return g
}

// NewGameFromFEN starts from an arbitrary position.
func NewGameFromFEN(fen string, cfg Config) (*Game, error) {
	b, side, err := mg.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	g := newGame(cfg)
	g.setup(b, side)
	return g, nil
}

func newGame(cfg Config) *Game {
	seed := cfg.seed()
	rng := rand.New(rand.NewSource(seed))
	logger := cfg.Logger.With().Str("component", "game").Logger()
	logger.Debug().Uint64("seed", seed).Int("depth", cfg.Depth).Msg("game created")
	return &Game{
		cfg:      cfg,
		rng:      rng,
		searcher: NewSearcher(rng, cfg.Logger.With().Str("component", "search").Logger()),
		log:      logger,
	}
}

func (g *Game) setup(b mg.Board, side mg.Side) {
	g.start = b
	g.startSide = side
	g.pos = NewPosition(b)
	g.seen = NewRepetitionSet()
	g.toMove = side
	g.history = nil
	g.captured = nil
}

// Reset returns the game to the position it was created from.
func (g *Game) Reset() {
	g.setup(g.start, g.startSide)
	g.log.Info().Msg("game reset")
}

// Board returns a snapshot of the live board.
func (g *Game) Board() mg.Board { return g.pos.Board() }

// FEN renders the live board with the side to move.
func (g *Game) FEN() string { return mg.ToFEN(g.pos.Board(), g.toMove) }

// SideToMove is the side opposite to the owner of the last moved piece.
func (g *Game) SideToMove() mg.Side { return g.toMove }

// Value is the running evaluation of the live position.
func (g *Game) Value() float64 { return g.pos.Value() }

// Depth is the configured default search depth.
func (g *Game) Depth() int { return g.cfg.Depth }

// IsGameOver reports whether a king has been captured.
func (g *Game) IsGameOver() bool { return g.pos.IsGameOver() }

// Winner returns the side that still has its king once the game is over.
func (g *Game) Winner() (mg.Side, bool) {
	if !g.IsGameOver() {
		return mg.SideA, false
	}
	b := g.pos.Board()
	switch {
	case b.HasKing(mg.SideA) && !b.HasKing(mg.SideB):
		return mg.SideA, true
	case b.HasKing(mg.SideB) && !b.HasKing(mg.SideA):
		return mg.SideB, true
	}
	return mg.SideA, false
}

// History returns the real moves played so far.
func (g *Game) History() []mg.Move { return slices.Clone(g.history) }

// Captured returns the pieces captured so far, in order.
func (g *Game) Captured() []mg.Piece { return slices.Clone(g.captured) }

// Repetitions is the number of boards in the repetition set.
func (g *Game) Repetitions() int { return g.seen.Len() }

// SeenPlacements returns the FEN placement field of every board in the
// repetition set, sorted.
func (g *Game) SeenPlacements() []string {
	out := make([]string, 0, g.seen.Len())
	for _, b := range g.seen.Snapshots() {
		out = append(out, strings.Fields(mg.ToFEN(b, mg.SideA))[0])
	}
	slices.Sort(out)
	return out
}

// SearchStats returns the counters of the last BestMove call.
func (g *Game) SearchStats() SearchStats { return g.searcher.Stats() }

// BestMove searches for side at the given depth. The live game is not changed.
func (g *Game) BestMove(side mg.Side, depth int) (mg.Move, error) {
	m, _, err := g.searcher.BestMove(g.pos, g.seen, side, depth)
	return m, err
}

// BestMoveValue is BestMove plus the backed-up value of the chosen move.
func (g *Game) BestMoveValue(side mg.Side, depth int) (mg.Move, float64, error) {
	return g.searcher.BestMove(g.pos, g.seen, side, depth)
}

// RandomMove picks uniformly among the moves of side that do not lead back to
// a board already seen.
func (g *Game) RandomMove(side mg.Side) (mg.Move, error) {
	if g.IsGameOver() {
		return mg.NoMove, ErrGameOver
	}
	var moves []mg.Move
	for m := range g.pos.LegalMoves(side) {
		b := g.pos.Board()
		_, _ = b.MovePiece(m)
		if g.seen.Contains(b) {
			continue
		}
		moves = append(moves, m)
	}
	if len(moves) == 0 {
		return mg.NoMove, fmt.Errorf("side %s: %w", side, ErrNoLegalMoves)
	}
	return moves[g.rng.Intn(len(moves))], nil
}

// Apply plays a real move. The pre-move board is recorded in the repetition
// set, which is then cleared if the move captured. The move must be one the
// piece on m.From can make.
func (g *Game) Apply(m mg.Move) error {
	if !m.InBounds() {
		return fmt.Errorf("apply %s: %w", m, mg.ErrOutOfBounds)
	}
	if g.IsGameOver() {
		return ErrGameOver
	}
	b := g.pos.Board()
	mover := b[m.From.Row][m.From.Col]
	if mover.IsEmpty() {
		return fmt.Errorf("apply %s: %w", m, ErrEmptySquare)
	}
	if !b.IsLegal(m) {
		return fmt.Errorf("apply %s: %w", m, ErrIllegalMove)
	}

	g.seen.Record(b)
	captured, err := g.pos.Apply(m)
	if err != nil {
		return err
	}
	g.history = append(g.history, m)
	g.toMove = mover.Side().Other()

	ev := g.log.Info().Str("move", m.String()).Str("side", mover.Side().String()).Float64("value", g.pos.Value())
	if captured != mg.Empty {
		g.captured = append(g.captured, captured)
		g.seen.Clear()
		ev = ev.Str("captured", captured.Kind().String())
	}
	ev.Int("repetitions", g.seen.Len()).Msg("move applied")
	return nil
}

// PlayTurn searches for the side to move and applies the result.
func (g *Game) PlayTurn(depth int) (mg.Move, error) {
	m, err := g.BestMove(g.toMove, depth)
	if err != nil {
		return mg.NoMove, err
	}
	if err := g.Apply(m); err != nil {
		return mg.NoMove, err
	}
	return m, nil
}

// HasMoves reports whether side can move at all.
func (g *Game) HasMoves(side mg.Side) bool {
	for range g.pos.LegalMoves(side) {
		return true
	}
	return false
}

// LegalMoves lists the moves of side in generation order.
func (g *Game) LegalMoves(side mg.Side) []mg.Move {
	var out []mg.Move
	for m := range g.pos.LegalMoves(side) {
		out = append(out, m)
	}
	return out
}
