// Package game provides types and functions for tracking Pennant Chase games.
//
// A Game is the scoreboard-level description of a completed game: the league
// year and day, the away and home team ids and the final runs for each side.
// Games are keyed by the site's box score id (the sid query parameter), which
// is stable across runs and is used as the key for archived box scores and
// game documents.
//
// Snapshots of known games are diffed against freshly scraped scoreboards to
// find the games that still need to be recorded and archived.
package game
