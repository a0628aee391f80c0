package notifier

import (
	"context"

	"github.com/thromer/pc-boxscores/internal/game"
)

// Message is one achievement announcement for a game
type Message struct {
	Text   string // achievement sentence from the analyzer
	GameID string
	Day    int
	Year   int
}

// String returns the text as posted, with the league day appended
func (m Message) String() string {
	return game.FormatMessage(m.Text, m.Day)
}

// Notifier defines the interface for posting achievement messages
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Func adapts a function to the Notifier interface
type Func func(ctx context.Context, msg Message) error

// Notify calls f
func (f Func) Notify(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
