// Package storage provides local file persistence for known games and
// archived box scores.
//
// Known games are kept in a JSON snapshot (games.json) in the data directory.
// Raw box score and replay pages are archived under boxscores/ as
// {key}.html with a {key}.json sidecar holding the game metadata. Archive
// writes are create-only, mirroring the S3 archive. The default storage
// location is ~/.local/share/pc-boxscores/.
package storage
