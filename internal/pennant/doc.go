// Package pennant is an HTTP client for the Pennant Chase league pages.
//
// It fetches box scores and replays, reads the league's current day and
// season year, parses daily scoreboards into games, and posts to the league
// chat. Read operations need no session; Login must be called before
// SubmitChat.
package pennant
