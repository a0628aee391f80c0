// Package archive stores raw box score and replay pages.
//
// Objects are written once and never replaced: Put fails with ErrExists when
// the key is already present. Each object carries the game's scoreboard
// metadata (year, day, away, home, away_r, home_r) so that a consumer reading
// a box score can label its messages without another lookup.
//
// S3Store keeps objects in an S3 bucket. The storage package provides a
// local-directory implementation of the same Store interface.
package archive
