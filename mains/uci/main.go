// Command uci speaks the Universal Chess Interface on stdin/stdout, for
// driving stablebot from a chess GUI.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/clanpj/stablebot/config"
	"github.com/clanpj/stablebot/logging"
)

var VersionString = "0.1 " + "CPU " + runtime.GOOS + "-" + runtime.GOARCH

var configPath = flag.String("config", "", "Path to a JSON config file.")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// stdout belongs to the GUI.
	logger := logging.New(cfg.Log, os.Stderr)

	u := newUCI(cfg.Engine, os.Stdout, logger)
	if err := u.loop(os.Stdin); err != nil {
		logger.Fatal().Err(err).Msg("uci-loop")
	}
}
