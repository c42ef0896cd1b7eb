// Command prof profiles one search, writing the profile to the current
// directory (or -dir).
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/clanpj/stablebot/config"
	"github.com/clanpj/stablebot/engine"
	"github.com/clanpj/stablebot/logging"
)

var VersionString = "0.1 " + "CPU " + runtime.GOOS + "-" + runtime.GOARCH

var configPath = flag.String("config", "", "Path to a JSON config file.")
var fen = flag.String("fen", engine.Startpos, "Position to search.")
var depth = flag.Int("depth", 4, "Search depth.")
var mode = flag.String("mode", "cpu", "Profile kind: cpu, mem or alloc.")
var dir = flag.String("dir", ".", "Directory for the profile output.")

func profileMode(mode string) (func(*profile.Profile), error) {
	switch mode {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "alloc":
		return profile.MemProfileAllocs, nil
	}
	return nil, fmt.Errorf("unknown profile mode %q", mode)
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, os.Stderr)

	profMode, err := profileMode(*mode)
	if err != nil {
		logger.Fatal().Err(err).Msg("profile-mode")
	}

	position, err := engine.ParsePosition(*fen)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse-fen")
	}

	p := profile.Start(profMode, profile.ProfilePath(*dir), profile.NoShutdownHook, profile.Quiet)
	stats, err := profSearch(cfg.Engine, position, *depth, logger)
	p.Stop()
	if err != nil {
		logger.Fatal().Err(err).Msg("search")
	}

	for _, s := range stats.InfoStrings() {
		fmt.Println(s)
	}
}

// profSearch runs the search being profiled and logs its result.
func profSearch(cfg engine.Config, position engine.Position, depth int, logger zerolog.Logger) (engine.SearchStatsT, error) {
	search, err := engine.NewSearch(cfg)
	if err != nil {
		return engine.SearchStatsT{}, err
	}
	search.SetObserver(engine.LogObserver(logger))

	logger.Info().Str("version", VersionString).Str("fen", position.Fen()).Int("depth", depth).Msg("starting")
	start := time.Now()
	_, _, err = search.BestMove(position, depth)
	if err != nil {
		return engine.SearchStatsT{}, err
	}
	logger.Info().Dur("elapsed", time.Since(start)).Msg("done")

	return search.Stats(), nil
}
