package main

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clanpj/stablebot/config"
	"github.com/clanpj/stablebot/engine"
	"github.com/clanpj/stablebot/lichess"
)

// botAPI is the part of the lichess client the bot drives.
type botAPI interface {
	StreamEvents(ctx context.Context) (<-chan lichess.EventMessage, error)
	StreamGameState(ctx context.Context, id string) (<-chan lichess.GameStateMessage, error)
	PostMove(ctx context.Context, id, moveUCI string) error
	AcceptChallenge(ctx context.Context, id string) error
	DeclineChallenge(ctx context.Context, id string, reason string) error
}

type State struct {
	client    botAPI
	cfg       config.LichessConfig
	engineCfg engine.Config
	logger    zerolog.Logger

	stateMu     sync.Mutex
	challenges  []Challenge
	activeGames []*Game
}

func NewState(client botAPI, cfg config.LichessConfig, engineCfg engine.Config, logger zerolog.Logger) *State {
	return &State{
		client:    client,
		cfg:       cfg,
		engineCfg: engineCfg,
		logger:    logger,
	}
}

func (state *State) isBotName(name string) bool {
	return strings.EqualFold(name, state.cfg.BotName)
}

func (state *State) acceptsVariant(key string) bool {
	for _, v := range state.cfg.AcceptVariants {
		if v == key {
			return true
		}
	}
	return false
}
