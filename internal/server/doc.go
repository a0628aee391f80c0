// Package server exposes the pipeline over HTTP so that schedulers and
// storage notifications can trigger it.
//
// Routes:
//
//	GET  /healthz                   liveness
//	GET  /metrics                   in-process counters and timings
//	POST /analyze                   analyze the box score HTML in the body
//	POST /boxscores/{key}/process   process an archived box score
//	POST /discover                  discover new games, optionally archiving them
package server
