// Command bench searches every position of a FEN or EPD file and reports
// the moves found, checking them against EPD "bm" operations.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/clanpj/stablebot/config"
	"github.com/clanpj/stablebot/logging"
)

var configPath = flag.String("config", "", "Path to a JSON config file.")
var depth = flag.Int("depth", -1, "Search depth. Defaults to engine.search_depth from the config.")
var workers = flag.Int("workers", 0, "Concurrent searches. Defaults to bench.workers from the config.")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [positions.epd]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, os.Stderr)

	if *depth < 0 {
		*depth = cfg.Engine.SearchDepth
	}
	if *workers <= 0 {
		*workers = cfg.Bench.Workers
	}

	var in io.Reader = os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			logger.Fatal().Err(err).Msg("open-positions")
		}
		defer f.Close()
		in = f
	}

	positions, err := readPositions(in)
	if err != nil {
		logger.Fatal().Err(err).Msg("read-positions")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := runBench(ctx, positions, cfg.Engine, *depth, *workers, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("bench")
	}

	printResults(os.Stdout, results)
	logger.Info().
		Int("positions", len(positions)).
		Int("depth", *depth).
		Int("workers", *workers).
		Dur("elapsed", time.Since(start)).
		Msg("bench-done")
}
