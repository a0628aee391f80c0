package pennant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	usernameField   = "txtUsername"
	passwordField   = "txtPassword"
	chatMessageKey  = "chatcontent"
	chatSubmittedOK = "Chat submitted"
	nbsp            = "\u00a0"
)

// ErrNotLoggedIn is returned by SubmitChat before a successful Login.
var ErrNotLoggedIn = errors.New("pennant: not logged in")

// Login signs in and primes the session cookies the chat endpoints expect.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{usernameField: {username}, passwordField: {password}}
	req, err := c.newRequest(ctx, http.MethodPost, c.url("/home/login", nil), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// The login response sets the session cookies; following its redirect is not needed
	resp, err := c.noRedirect().Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("login: unexpected status code: %d", resp.StatusCode)
	}

	if _, err := c.get(ctx, c.url("/lgHome.aspx", url.Values{"lgid": {c.leagueID}})); err != nil {
		return fmt.Errorf("league home: %w", err)
	}

	c.client.Jar.SetCookies(c.baseURL, []*http.Cookie{
		{Name: "uref", Value: c.url("/home/login", nil), Path: "/"},
		{Name: "lgid", Value: c.leagueID, Path: "/"},
		{Name: "lgname", Value: c.leagueName, Path: "/"},
		{Name: "fsbotchecked", Value: "true", Path: "/"},
	})
	c.loggedIn = true
	return nil
}

// noRedirect returns a copy of the client, sharing its cookie jar, that
// returns redirect responses as is.
func (c *Client) noRedirect() *http.Client {
	hc := *c.client
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &hc
}

// ChatPage returns the raw league chat page
func (c *Client) ChatPage(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.url("/socialRest/LeagueChat.aspx", url.Values{"lgid": {c.leagueID}, "r": {"1234"}}))
	if err != nil {
		return "", fmt.Errorf("league chat: %w", err)
	}
	return string(body), nil
}

// ChatContains reports whether text appears verbatim in the league chat page.
func (c *Client) ChatContains(ctx context.Context, text string) (bool, error) {
	page, err := c.ChatPage(ctx)
	if err != nil {
		return false, err
	}
	return strings.Contains(page, text), nil
}

// SubmitChat posts text to the league chat.
func (c *Client) SubmitChat(ctx context.Context, text string) error {
	if !c.loggedIn {
		return ErrNotLoggedIn
	}

	rawURL := c.url("/socialRest/LeagueSubmitChat.aspx", url.Values{"clgid": {c.leagueID}, chatMessageKey: {text}})
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.noRedirect().Do(req)
	if err != nil {
		return fmt.Errorf("submitting chat: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("submitting chat: unexpected status code: %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), chatSubmittedOK) {
		return fmt.Errorf("chat not accepted: %s", truncate(string(body), 200))
	}
	return nil
}

// ChatMessage returns message with n trailing non-breaking spaces, the form
// in which it is posted.
func ChatMessage(message string, n int) string {
	if n < 0 {
		n = 0
	}
	return message + strings.Repeat(nbsp, n)
}

// ChatMarker returns the string whose presence in the chat page means the
// message was already posted.
func ChatMarker(message string, n int) string {
	return ChatMessage(message, n) + "<"
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
