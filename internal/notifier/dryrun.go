package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// DryRunNotifier prints what would be posted without posting it
type DryRunNotifier struct {
	mu    sync.Mutex
	w     io.Writer
	count int
}

// NewDryRunNotifier creates a dry-run notifier writing to w, or stdout if w is nil
func NewDryRunNotifier(w io.Writer) *DryRunNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &DryRunNotifier{w: w}
}

// Notify prints the message that would be posted
func (n *DryRunNotifier) Notify(ctx context.Context, msg Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++

	fmt.Fprintf(n.w, "--- Message %d (game %s) ---\n", n.count, msg.GameID)
	fmt.Fprintln(n.w, msg.String())
	fmt.Fprintf(n.w, "(Trailing spaces: %d)\n\n", TrailingSpaces(msg.Year))
	return nil
}

// Count returns how many messages have been printed
func (n *DryRunNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}
