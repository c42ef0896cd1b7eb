package main

import (
	"context"
	"fmt"

	"github.com/clanpj/stablebot/lichess"
)

func (state *State) handleEvent(msg lichess.EventMessage) {
	switch msg.Type {
	case lichess.ChallengeEventType:
		challenge := msg.Data.(lichess.ChallengeEvent)
		if state.isBotName(challenge.Challenge.Challenger.Name) {
			// Our own outgoing challenge.
			return
		}
		state.PushChallenge(Challenge{
			ID:         challenge.Challenge.ID,
			Challenger: challenge.Challenge.Challenger,
			Variant:    challenge.Challenge.Variant,
		})

	case lichess.GameStartEventType:
		gameStart := msg.Data.(lichess.GameEvent)
		state.PushGame(&Game{ID: gameStart.Game.ID})

	case lichess.GameFinishEventType:
		gameFinish := msg.Data.(lichess.GameEvent)
		state.RemoveGame(gameFinish.Game.ID)

	case lichess.ChallengeCanceledEventType, lichess.ChallengeDeclinedEventType:
		challenge := msg.Data.(lichess.ChallengeEvent)
		state.logger.Debug().Str("challenge", challenge.Challenge.ID).Str("type", challenge.Type).Msg("challenge-closed")

	default:
		state.logger.Debug().Interface("event", msg.Data).Msg("unknown-event")
	}
}

// ListenForEvents consumes the account event stream. It returns an error if
// lichess ends the stream while ctx is still live.
func ListenForEvents(ctx context.Context, state *State) error {
	eventsChannel, err := state.client.StreamEvents(ctx)
	if err != nil {
		return fmt.Errorf("bot: opening event stream: %w", err)
	}

	for msg := range eventsChannel {
		state.handleEvent(msg)
	}

	if ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("bot: event stream closed")
}
