package notifier

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
)

const (
	tweetLimit = 280
	hashtags   = "\n\n#PennantChase"
)

// TwitterNotifier posts achievement messages as tweets
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a Twitter notifier from OAuth1 credentials
func NewTwitterNotifier(apiKey, apiSecret, accessToken, accessSecret string) (*TwitterNotifier, error) {
	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{client: client}, nil
}

// Notify posts msg as a tweet
func (n *TwitterNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := n.client.Statuses.Update(formatTweet(msg), nil)
	if err != nil {
		return fmt.Errorf("failed to post tweet for game %s: %w", msg.GameID, err)
	}
	return nil
}

// formatTweet formats a message as a tweet, truncated to the character limit
func formatTweet(msg Message) string {
	tweet := "⚾ " + msg.String() + hashtags

	if utf8.RuneCountInString(tweet) > tweetLimit {
		runes := []rune(tweet)
		tweet = string(runes[:tweetLimit-3]) + "..."
	}

	return tweet
}
