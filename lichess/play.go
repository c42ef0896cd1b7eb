package lichess

import (
	"context"
	"net/url"
)

func (lc *LichessClient) PostMove(ctx context.Context, id, moveUCI string) error {
	return lc.doPost(ctx, "/api/bot/game/"+id+"/move/"+moveUCI, nil)
}

func (lc *LichessClient) AcceptChallenge(ctx context.Context, id string) error {
	return lc.doPost(ctx, "/api/challenge/"+id+"/accept", nil)
}

// DeclineChallenge declines with one of lichess's reason keys, e.g. "variant".
func (lc *LichessClient) DeclineChallenge(ctx context.Context, id string, reason string) error {
	var params url.Values
	if reason != "" {
		params = url.Values{"reason": {reason}}
	}
	return lc.doPost(ctx, "/api/challenge/"+id+"/decline", params)
}

func (lc *LichessClient) UpgradeAccount(ctx context.Context) error {
	return lc.doPost(ctx, "/api/bot/account/upgrade", nil)
}
