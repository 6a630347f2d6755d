package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"unimax-chess/server"

	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "JSON config file (optional)")
	addr := flag.String("addr", "", "listen address, overrides the config file")
	depth := flag.Int("depth", -1, "default search depth, overrides the config file")
	seed := flag.Uint64("seed", 0, "random seed, overrides the config file when non-zero")
	flag.Parse()

	cfg := server.DefaultConfig()
	if *configPath != "" {
		loaded, err := server.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *depth >= 0 {
		cfg.Depth = *depth
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.NewConfigStore(cfg), logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
