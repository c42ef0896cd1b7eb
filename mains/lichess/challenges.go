package main

import (
	"context"
	"time"

	"github.com/clanpj/stablebot/lichess"
)

const maxChallengeRetries = 3

var challengePollInterval = time.Second

type Challenge struct {
	ID         string
	Challenger lichess.User
	Variant    lichess.Variant

	Retries int
}

func (state *State) PushChallenge(challenge Challenge) {
	state.stateMu.Lock()
	defer state.stateMu.Unlock()

	state.challenges = append(state.challenges, challenge)
}

func (state *State) PopChallenge() *Challenge {
	state.stateMu.Lock()
	defer state.stateMu.Unlock()

	if len(state.challenges) == 0 {
		return nil
	}

	challenge := state.challenges[0]
	state.challenges = state.challenges[1:]
	return &challenge
}

// declineReason is the lichess reason key for turning the challenge down,
// or "" to accept it.
func (state *State) declineReason(challenge *Challenge) string {
	if !state.acceptsVariant(challenge.Variant.Key) {
		return "variant"
	}
	if state.GameCount() >= state.cfg.MaxGames {
		return "later"
	}
	return ""
}

// handleChallenge accepts or declines one challenge. A failed accept is
// queued again until it runs out of retries.
func (state *State) handleChallenge(ctx context.Context, challenge *Challenge) {
	logger := state.logger.With().
		Str("challenge", challenge.ID).
		Str("challenger", challenge.Challenger.Name).
		Str("variant", challenge.Variant.Key).
		Logger()

	if reason := state.declineReason(challenge); reason != "" {
		if err := state.client.DeclineChallenge(ctx, challenge.ID, reason); err != nil {
			logger.Warn().Err(err).Msg("decline-challenge")
			return
		}
		logger.Info().Str("reason", reason).Msg("challenge-declined")
		return
	}

	if err := state.client.AcceptChallenge(ctx, challenge.ID); err != nil {
		logger.Warn().Err(err).Int("retries", challenge.Retries).Msg("accept-challenge")
		if challenge.Retries+1 < maxChallengeRetries {
			challenge.Retries++
			state.PushChallenge(*challenge)
		}
		return
	}
	logger.Info().Msg("challenge-accepted")
}

// AcceptChallenges works through queued challenges until ctx is done.
func AcceptChallenges(ctx context.Context, state *State) error {
	ticker := time.NewTicker(challengePollInterval)
	defer ticker.Stop()

	for {
		for challenge := state.PopChallenge(); challenge != nil; challenge = state.PopChallenge() {
			state.handleChallenge(ctx, challenge)
			if ctx.Err() != nil {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
