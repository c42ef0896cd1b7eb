// Package config loads the JSON configuration shared by the stablebot binaries.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/clanpj/stablebot/engine"
)

const (
	TokenEnv    = "LICHESS_TOKEN"
	LogLevelEnv = "STABLEBOT_LOG_LEVEL"
)

type Config struct {
	Engine  engine.Config `json:"engine"`
	Log     LogConfig     `json:"log"`
	Server  ServerConfig  `json:"server"`
	Lichess LichessConfig `json:"lichess"`
	Bench   BenchConfig   `json:"bench"`
}

type LogConfig struct {
	Level  string `json:"level"` // zerolog level name
	Pretty bool   `json:"pretty"`
}

type ServerConfig struct {
	Addr                  string `json:"addr"`
	MaxConcurrentSearches int    `json:"max_concurrent_searches"`
	MaxDepth              int    `json:"max_depth"`
}

type LichessConfig struct {
	APIHost        string   `json:"api_host"`
	Token          string   `json:"token"`
	BotName        string   `json:"bot_name"`
	Depth          int      `json:"depth"`
	AcceptVariants []string `json:"accept_variants"`
	MaxGames       int      `json:"max_games"`
}

type BenchConfig struct {
	Workers int `json:"workers"`
}

func Default() Config {
	return Config{
		Engine: engine.DefaultConfig(),
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:                  ":8080",
			MaxConcurrentSearches: 4,
			MaxDepth:              6,
		},
		Lichess: LichessConfig{
			APIHost:        "https://lichess.org/",
			BotName:        "Stablebot",
			Depth:          4,
			AcceptVariants: []string{"standard"},
			MaxGames:       2,
		},
		Bench: BenchConfig{
			Workers: 4,
		},
	}
}

// Load overlays the JSON file at path on Default, then applies environment
// overrides. An empty path means defaults only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if token, ok := lookup(TokenEnv); ok && token != "" {
		c.Lichess.Token = token
	}
	if level, ok := lookup(LogLevelEnv); ok && level != "" {
		c.Log.Level = strings.ToLower(level)
	}
}

var ErrInvalid = errors.New("config: invalid")

func (c Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if c.Server.MaxConcurrentSearches < 1 {
		return fmt.Errorf("%w: server.max_concurrent_searches must be at least 1", ErrInvalid)
	}
	if c.Server.MaxDepth < engine.MinDepth || c.Server.MaxDepth > engine.MaxDepth {
		return fmt.Errorf("%w: server.max_depth %d not in [%d, %d]", ErrInvalid, c.Server.MaxDepth, engine.MinDepth, engine.MaxDepth)
	}
	if c.Lichess.Depth < engine.MinDepth || c.Lichess.Depth > engine.MaxDepth {
		return fmt.Errorf("%w: lichess.depth %d not in [%d, %d]", ErrInvalid, c.Lichess.Depth, engine.MinDepth, engine.MaxDepth)
	}
	if c.Lichess.MaxGames < 1 {
		return fmt.Errorf("%w: lichess.max_games must be at least 1", ErrInvalid)
	}
	if c.Bench.Workers < 1 {
		return fmt.Errorf("%w: bench.workers must be at least 1", ErrInvalid)
	}
	return nil
}
