package lichess

import (
	"context"
	"encoding/json"
	"net/http"
)

type EventType int

const (
	UnknownEventType           EventType = 0
	ChallengeEventType         EventType = 1
	GameStartEventType         EventType = 2
	GameFinishEventType        EventType = 3
	ChallengeCanceledEventType EventType = 4
	ChallengeDeclinedEventType EventType = 5
)

type Challenge struct {
	ID     string
	Status string
	Rated  bool

	Challenger User
	DestUser   User

	Variant Variant

	TimeControl struct {
		Type      string
		Limit     int64
		Increment int64
	}
}

type ChallengeEvent struct {
	Type      string
	Challenge Challenge
}

type GameEventInfo struct {
	ID     string `json:"id"`
	GameID string `json:"gameId"`
	Fen    string `json:"fen"`
	Color  string `json:"color"`
}

// GameEvent is sent when a game starts or finishes.
type GameEvent struct {
	Type string
	Game GameEventInfo
}

type EventMessage struct {
	Type EventType
	Data interface{}
}

func (msg *EventMessage) UnmarshalJSON(bytes []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(bytes, &head); err != nil {
		return err
	}

	switch head.Type {
	case "challenge", "challengeCanceled", "challengeDeclined":
		var challenge ChallengeEvent
		if err := json.Unmarshal(bytes, &challenge); err != nil {
			return err
		}

		msg.Data = challenge
		switch head.Type {
		case "challenge":
			msg.Type = ChallengeEventType
		case "challengeCanceled":
			msg.Type = ChallengeCanceledEventType
		default:
			msg.Type = ChallengeDeclinedEventType
		}

	case "gameStart", "gameFinish":
		var game GameEvent
		if err := json.Unmarshal(bytes, &game); err != nil {
			return err
		}

		msg.Data = game
		msg.Type = GameStartEventType
		if head.Type == "gameFinish" {
			msg.Type = GameFinishEventType
		}

	default:
		msg.Type = UnknownEventType
		msg.Data = head.Type
	}

	return nil
}

// StreamEvents streams the account's incoming events until ctx is done or
// lichess closes the stream.
func (lc *LichessClient) StreamEvents(ctx context.Context) (<-chan EventMessage, error) {
	req, err := lc.newRequest(ctx, http.MethodGet, "/api/stream/event", nil)
	if err != nil {
		return nil, err
	}

	res, err := lc.doRequest(req)
	if err != nil {
		return nil, err
	}

	return streamJSON[EventMessage](ctx, lc.logger, "events", res), nil
}
