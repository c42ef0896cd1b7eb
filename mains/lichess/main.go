// Command lichess plays rated and casual games on lichess.org as a bot
// account, using the stablebot search.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/clanpj/stablebot/config"
	"github.com/clanpj/stablebot/lichess"
	"github.com/clanpj/stablebot/logging"
)

var configPath = flag.String("config", "", "Path to a JSON config file.")
var apiKey = flag.String("api-key", "", "The Lichess API key to use for this bot's requests. Overrides the config and "+config.TokenEnv+".")
var upgrade = flag.Bool("upgrade", false, "Upgrade the account to a bot account, then exit.")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *apiKey != "" {
		cfg.Lichess.Token = *apiKey
	}

	logger := logging.New(cfg.Log, os.Stderr)

	if cfg.Lichess.Token == "" {
		fmt.Fprintln(os.Stderr, "Lichess-Bot requires a Lichess API key in order to run.")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := lichess.NewLichessClient(cfg.Lichess.APIHost, cfg.Lichess.Token, logger)

	if *upgrade {
		if err := client.UpgradeAccount(ctx); err != nil {
			logger.Fatal().Err(err).Msg("upgrade-account")
		}
		logger.Info().Msg("account-upgraded")
		return
	}

	account, err := client.GetAccount(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("get-account")
	}
	if !account.IsBot() {
		logger.Warn().Str("account", account.Username).Msg("not-a-bot-account")
	}
	cfg.Lichess.BotName = account.Username

	state := NewState(client, cfg.Lichess, cfg.Engine, logger)
	logger.Info().
		Str("account", account.Username).
		Int("depth", cfg.Lichess.Depth).
		Int("max_games", cfg.Lichess.MaxGames).
		Strs("variants", cfg.Lichess.AcceptVariants).
		Msg("bot-started")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ListenForEvents(ctx, state) })
	g.Go(func() error { return AcceptChallenges(ctx, state) })
	g.Go(func() error { return PlayGames(ctx, state) })

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("bot-stopped")
	}
	logger.Info().Msg("bot-stopped")
}
