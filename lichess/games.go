package lichess

import (
	"context"
	"encoding/json"
	"net/http"
)

type GameStateType int

const (
	UnknownGameStateType   GameStateType = 0
	GameFullGameStateType  GameStateType = 1
	GameStateGameStateType GameStateType = 2
	ChatLineGameStateType  GameStateType = 3
)

type GameFullGameState struct {
	ID    string
	Type  string
	Rated bool

	White   User
	Black   User
	Variant Variant
	Clock   Clock

	InitialFen string
	State      GameStateGameState
}

type GameStateGameState struct {
	Type   string
	Moves  string
	Status string

	WTime int64 // ms
	WInc  int64

	BTime int64 // ms
	BInc  int64
}

// IsOver reports whether lichess considers the game finished.
func (s GameStateGameState) IsOver() bool {
	return s.Status != "" && s.Status != "created" && s.Status != "started"
}

type ChatLineGameState struct {
	Type     string
	Username string
	Text     string
	Room     string
}

type GameStateMessage struct {
	Type GameStateType
	Data interface{}
}

func (msg *GameStateMessage) UnmarshalJSON(bytes []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(bytes, &head); err != nil {
		return err
	}

	switch head.Type {
	case "gameFull":
		var gameFull GameFullGameState
		if err := json.Unmarshal(bytes, &gameFull); err != nil {
			return err
		}

		msg.Type = GameFullGameStateType
		msg.Data = gameFull

	case "gameState":
		var gameState GameStateGameState
		if err := json.Unmarshal(bytes, &gameState); err != nil {
			return err
		}

		msg.Type = GameStateGameStateType
		msg.Data = gameState

	case "chatLine":
		var chatLine ChatLineGameState
		if err := json.Unmarshal(bytes, &chatLine); err != nil {
			return err
		}

		msg.Type = ChatLineGameStateType
		msg.Data = chatLine

	default:
		msg.Type = UnknownGameStateType
		msg.Data = head.Type
	}

	return nil
}

func (lc *LichessClient) StreamGameState(ctx context.Context, id string) (<-chan GameStateMessage, error) {
	req, err := lc.newRequest(ctx, http.MethodGet, "/api/bot/game/stream/"+id, nil)
	if err != nil {
		return nil, err
	}

	res, err := lc.doRequest(req)
	if err != nil {
		return nil, err
	}

	return streamJSON[GameStateMessage](ctx, lc.logger, "game "+id, res), nil
}
