// Package boxscore turns a Pennant Chase box score page into achievement messages.
//
// A box score page carries three tables: a line-score summary (one row per team,
// including runners left on base), a batting table and a pitching table. The
// batting and pitching tables interleave team delimiter rows, player rows and a
// trailing totals row. Parse walks those tables into typed Batter and Pitcher
// records, folds team totals, and Detect applies the fixed rule set (cycle,
// four home runs, eighteen strikeouts, no-hitter and perfect game).
//
// Analyze is a pure function: it performs no I/O and keeps no state between
// calls, so it is safe for concurrent use. Any malformed input fails the whole
// call; a partially analyzed box score never yields messages.
package boxscore
