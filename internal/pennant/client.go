package pennant

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://www.pennantchase.com"
	DefaultUserAgent = "pc-boxscores/1.0"
	Timeout          = 30 * time.Second
)

// Options configures a Client
type Options struct {
	BaseURL    string
	LeagueID   string
	LeagueName string
	UserAgent  string
	Timeout    time.Duration
}

// Client talks to one league on the Pennant Chase site
type Client struct {
	baseURL    *url.URL
	leagueID   string
	leagueName string
	userAgent  string
	client     *http.Client
	loggedIn   bool
}

// New creates a Client. Empty options fall back to the public site defaults.
func New(opts Options) (*Client, error) {
	if opts.LeagueID == "" {
		return nil, fmt.Errorf("league id is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &Client{
		baseURL:    base,
		leagueID:   opts.LeagueID,
		leagueName: opts.LeagueName,
		userAgent:  opts.UserAgent,
		client: &http.Client{
			Timeout: opts.Timeout,
			Jar:     jar,
		},
	}, nil
}

// LeagueID returns the league this client reads and posts to
func (c *Client) LeagueID() string {
	return c.leagueID
}

func (c *Client) url(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// BoxScoreURL returns the box score page for a game
func (c *Client) BoxScoreURL(gameID string) string {
	return c.url("/lgBoxScoreReader.aspx", url.Values{"sid": {gameID}, "lgid": {c.leagueID}})
}

// ReplayURL returns the play-by-play replay page for a game
func (c *Client) ReplayURL(gameID, home, away string) string {
	return c.url("/lgReplay.aspx", url.Values{
		"lgid": {c.leagueID},
		"sid":  {gameID},
		"hid":  {home},
		"vid":  {away},
	})
}

func (c *Client) scoreboardURL(day int) string {
	q := url.Values{"lgid": {c.leagueID}}
	if day > 0 {
		q.Set("scoreday", fmt.Sprint(day))
	}
	return c.url("/lgScoreboard.aspx", q)
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// get fetches rawURL and returns the body of a 200 response
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	return body, nil
}

// FetchBoxScore returns the raw box score page for a game
func (c *Client) FetchBoxScore(ctx context.Context, gameID string) (string, error) {
	body, err := c.get(ctx, c.BoxScoreURL(gameID))
	if err != nil {
		return "", fmt.Errorf("box score %s: %w", gameID, err)
	}
	return string(body), nil
}

// FetchReplay returns the raw replay page for a game
func (c *Client) FetchReplay(ctx context.Context, gameID, home, away string) ([]byte, error) {
	body, err := c.get(ctx, c.ReplayURL(gameID, home, away))
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", gameID, err)
	}
	return body, nil
}
