package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"unimax-chess/engine"
	mg "unimax-chess/unimaxmg"

	"github.com/rs/zerolog"
)

func main() {
	// --- Flags ---
	depthFlag := flag.Int("depth", engine.DefaultDepth, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	seedFlag := flag.Uint64("seed", 1, "random seed for successor shuffling")
	verbose := flag.Bool("v", false, "log each search at debug level to stderr")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	if *depthFlag < 0 {
		log.Fatalf("depth must not be negative, got %d", *depthFlag)
	}

	// --- Optional CPU profiling setup ---
	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
	}

	fen := mg.FENStartPos
	if *fenFlag != "" {
		fen = *fenFlag
	}
	depth := *depthFlag
	repeat := *repeatFlag

	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d\n", fen, depth, repeat)

	var totalNodes uint64
	startAll := time.Now()
	for i := 0; i < repeat; i++ {
		// Fresh game for each run; the seed varies so runs explore different orders.
		game, err := engine.NewGameFromFEN(fen, engine.Config{
			Depth:  depth,
			Seed:   *seedFlag + uint64(i),
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("bad fen: %v", err)
		}

		bestMove, value, err := game.BestMoveValue(game.SideToMove(), game.Depth())
		if err != nil {
			log.Fatalf("search failed: %v", err)
		}
		st := game.SearchStats()
		totalNodes += st.Nodes

		fmt.Printf("iteration %d: bestmove %v value=%g nodes=%d leaves=%d cutoffs=%d time=%v\n",
			i+1, bestMove, value, st.Nodes, st.Leaves, st.Cutoffs, st.Elapsed)
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v nodes: %d nps: %.0f\n", totalElapsed, totalNodes, float64(totalNodes)/totalElapsed.Seconds())

	// --- Optional heap profile at the end ---
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}
}
