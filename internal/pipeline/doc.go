// Package pipeline wires the league site, the archive, the game record store
// and the notifier into the three jobs the system runs:
//
//   - Discover walks the league scoreboard backwards from the current day and
//     records every game it has not seen before.
//   - ArchiveGames stores the raw box score and replay of each new game.
//   - ProcessBoxScore analyzes one box score and announces its achievements.
//
// Each job is safe to repeat: records and archive objects are create-only
// and the notifiers skip messages that were already posted.
package pipeline
