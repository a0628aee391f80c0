package notifier

import (
	"context"
	"fmt"

	"github.com/thromer/pc-boxscores/internal/telegram"
)

// TelegramNotifier sends achievement messages to a Telegram chat
type TelegramNotifier struct {
	client *telegram.Client
}

// NewTelegramNotifier wraps a Telegram client
func NewTelegramNotifier(client *telegram.Client) *TelegramNotifier {
	return &TelegramNotifier{client: client}
}

// Notify sends msg to the configured chat
func (n *TelegramNotifier) Notify(ctx context.Context, msg Message) error {
	if err := n.client.SendMessage(ctx, "⚾ "+msg.String()); err != nil {
		return fmt.Errorf("telegram message for game %s: %w", msg.GameID, err)
	}
	return nil
}
