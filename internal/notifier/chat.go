package notifier

import (
	"context"
	"fmt"

	"github.com/thromer/pc-boxscores/internal/logger"
	"github.com/thromer/pc-boxscores/internal/pennant"
)

// seasonCycle is the number of distinct trailing-space counts used to tell
// seasons apart in the chat.
const seasonCycle = 5

// ChatClient is the league chat subset of pennant.Client
type ChatClient interface {
	ChatContains(ctx context.Context, text string) (bool, error)
	SubmitChat(ctx context.Context, text string) error
}

// LeagueChat posts messages to the league chat
type LeagueChat struct {
	client ChatClient
	log    *logger.Logger
}

// NewLeagueChat creates a league chat notifier
func NewLeagueChat(client ChatClient) *LeagueChat {
	return &LeagueChat{
		client: client,
		log:    logger.With(logger.Fields{"component": "league_chat"}),
	}
}

// TrailingSpaces returns the number of non-breaking spaces appended to
// messages for a season.
func TrailingSpaces(year int) int {
	n := year % seasonCycle
	if n < 0 {
		n += seasonCycle
	}
	return n
}

// Notify posts msg unless the same text already appears in the chat for this season.
func (n *LeagueChat) Notify(ctx context.Context, msg Message) error {
	text := msg.String()
	spaces := TrailingSpaces(msg.Year)

	posted, err := n.client.ChatContains(ctx, pennant.ChatMarker(text, spaces))
	if err != nil {
		return fmt.Errorf("checking chat: %w", err)
	}
	if posted {
		n.log.Info("already sent to chat", logger.Fields{"game_id": msg.GameID, "message": text})
		logger.IncrCounter(logger.MetricChatDuplicate)
		return nil
	}

	if err := n.client.SubmitChat(ctx, pennant.ChatMessage(text, spaces)); err != nil {
		return fmt.Errorf("posting to chat: %w", err)
	}

	n.log.Info("sent to chat", logger.Fields{"game_id": msg.GameID, "message": text})
	logger.IncrCounter(logger.MetricChatPosted)
	return nil
}
