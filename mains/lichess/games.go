package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clanpj/stablebot/engine"
	"github.com/clanpj/stablebot/lichess"
)

var gamePollInterval = time.Second

type Game struct {
	ID         string
	InitialFen string
	Color      engine.Color

	Moves []string // List of moves in UCI format.

	isPlaying bool
	mutex     sync.Mutex
}

func (state *State) PushGame(game *Game) {
	state.stateMu.Lock()
	defer state.stateMu.Unlock()

	for _, g := range state.activeGames {
		if g.ID == game.ID {
			return
		}
	}
	state.activeGames = append(state.activeGames, game)
}

func (state *State) RemoveGame(gameID string) {
	state.stateMu.Lock()
	defer state.stateMu.Unlock()

	var games []*Game
	for _, game := range state.activeGames {
		if game.ID != gameID {
			games = append(games, game)
		}
	}

	state.activeGames = games
}

func (state *State) GameCount() int {
	state.stateMu.Lock()
	defer state.stateMu.Unlock()

	return len(state.activeGames)
}

func (state *State) games() []*Game {
	state.stateMu.Lock()
	defer state.stateMu.Unlock()

	return append([]*Game(nil), state.activeGames...)
}

func lockGame(game *Game) bool {
	game.mutex.Lock()
	defer game.mutex.Unlock()

	acquiredLock := false
	if !game.isPlaying {
		acquiredLock = true
		game.isPlaying = true
	}

	return acquiredLock
}

func unlockGame(game *Game) {
	game.mutex.Lock()
	defer game.mutex.Unlock()

	game.isPlaying = false
}

// PlayGames starts a player for every active game that lacks one, and waits
// for them all once ctx is done.
func PlayGames(ctx context.Context, state *State) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	ticker := time.NewTicker(gamePollInterval)
	defer ticker.Stop()

	for {
		for _, game := range state.games() {
			if !lockGame(game) {
				continue
			}
			wg.Add(1)
			go func(game *Game) {
				defer wg.Done()
				defer unlockGame(game)
				state.playGame(ctx, game)
			}(game)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (state *State) playGame(ctx context.Context, game *Game) {
	logger := state.logger.With().Str("game", game.ID).Logger()

	gameStateCh, err := state.client.StreamGameState(ctx, game.ID)
	if err != nil {
		logger.Warn().Err(err).Msg("game-stream")
		return
	}

	// Listen to game updates as long as we can.
	for msg := range gameStateCh {
		isOver, err := state.handleMessage(ctx, game, msg)
		if err != nil {
			logger.Warn().Err(err).Msg("game-update")
			return
		}
		if isOver {
			logger.Info().Strs("moves", game.Moves).Msg("game-finished")
			state.RemoveGame(game.ID)
			return
		}
	}
}

// handleMessage applies one game stream message and moves if it is our
// turn. It reports whether the game is over.
func (state *State) handleMessage(ctx context.Context, game *Game, msg lichess.GameStateMessage) (bool, error) {
	var statusOver bool
	switch msg.Type {
	case lichess.GameFullGameStateType:
		initialState := msg.Data.(lichess.GameFullGameState)
		if err := state.handleInitialGameState(game, initialState); err != nil {
			return false, err
		}
		statusOver = initialState.State.IsOver()

	case lichess.GameStateGameStateType:
		update := msg.Data.(lichess.GameStateGameState)
		game.Moves = splitMoves(update.Moves)
		statusOver = update.IsOver()

	case lichess.ChatLineGameStateType:
		chat := msg.Data.(lichess.ChatLineGameState)
		state.logger.Debug().Str("game", game.ID).Str("user", chat.Username).Str("text", chat.Text).Msg("chat")
		return false, nil

	default:
		state.logger.Debug().Str("game", game.ID).Interface("update", msg.Data).Msg("unknown-game-update")
		return false, nil
	}

	position, err := game.position()
	if err != nil {
		return false, err
	}

	if statusOver || position.Status() != engine.Ongoing {
		return true, nil
	}

	if position.SideToMove() == game.Color {
		if err := state.makeMove(ctx, game, position); err != nil {
			return false, err
		}
	}

	return false, nil
}

func (state *State) handleInitialGameState(game *Game, initialState lichess.GameFullGameState) error {
	game.InitialFen = initialState.InitialFen
	game.Moves = splitMoves(initialState.State.Moves)

	switch {
	case state.isBotName(initialState.White.Name):
		game.Color = engine.White
	case state.isBotName(initialState.Black.Name):
		game.Color = engine.Black
	default:
		return fmt.Errorf("bot: expected one of the players in game %s to be %s", game.ID, state.cfg.BotName)
	}

	return nil
}

func splitMoves(moves string) []string {
	return strings.Fields(moves)
}

func (game *Game) position() (engine.Position, error) {
	fen := game.InitialFen
	if fen == "" || fen == lichess.StartFen {
		fen = engine.Startpos
	}

	position, err := engine.ParsePosition(fen)
	if err != nil {
		return engine.Position{}, err
	}

	for _, moveStr := range game.Moves {
		if position, err = position.ApplyUCI(moveStr); err != nil {
			return engine.Position{}, err
		}
	}

	return position, nil
}

func (state *State) makeMove(ctx context.Context, game *Game, position engine.Position) error {
	logger := state.logger.With().Str("game", game.ID).Int("ply", len(game.Moves)).Logger()

	search, err := engine.NewSearch(state.engineCfg)
	if err != nil {
		return err
	}
	search.SetObserver(engine.LogObserver(logger))

	move, eval, err := search.BestMove(position, state.cfg.Depth)
	if err != nil {
		return err
	}

	event := logger.Info().Str("move", engine.MoveString(move)).Int("eval", int(eval))
	if plies, ok := state.engineCfg.MatePlies(eval, state.cfg.Depth); ok {
		event = event.Int("mate_plies", plies)
	}
	event.Msg("move")

	return state.client.PostMove(ctx, game.ID, engine.MoveString(move))
}
