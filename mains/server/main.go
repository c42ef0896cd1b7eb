// Command server exposes the stablebot search over HTTP and websockets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/clanpj/stablebot/config"
	"github.com/clanpj/stablebot/logging"
	"github.com/clanpj/stablebot/server"
)

var configPath = flag.String("config", "", "Path to a JSON config file.")
var addr = flag.String("addr", "", "Listen address. Overrides server.addr from the config.")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := logging.New(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Engine, cfg.Server, logger)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server-stopped")
	}
	logger.Info().Msg("server-stopped")
}
