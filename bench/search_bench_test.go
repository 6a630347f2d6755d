package bench

import (
	"testing"

	"unimax-chess/engine"
	mg "unimax-chess/unimaxmg"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

func benchSearch(b *testing.B, fen string, depth int) {
	board, side, err := mg.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	pos := engine.NewPosition(board)
	s := engine.NewSearcher(rand.New(rand.NewSource(1)), zerolog.Nop())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := s.BestMove(pos, nil, side, depth); err != nil {
			b.Fatal(err)
		}
	}
	b.ReportMetric(float64(s.Stats().Nodes), "nodes/op")
}

func BenchmarkSearch_Initial_D1(b *testing.B) {
	benchSearch(b, mg.FENStartPos, 1)
}

func BenchmarkSearch_Initial_D2(b *testing.B) {
	benchSearch(b, mg.FENStartPos, 2)
}

func BenchmarkSearch_Kiwipete_D2(b *testing.B) {
	benchSearch(b, kiwipete, 2)
}

func BenchmarkEvaluate_Kiwipete(b *testing.B) {
	board, _, err := mg.ParseFEN(kiwipete)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.Evaluate(&board)
	}
}
