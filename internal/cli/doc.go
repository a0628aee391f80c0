// Package cli implements the command-line interface for pc-boxscores.
//
// The cli package provides the Cobra-based CLI for analyzing box scores,
// discovering and archiving new games, processing archived box scores and
// serving the pipeline over HTTP. It also holds the wiring shared with the
// Lambda entry point: configuration, AWS clients, storage selection and the
// notifier factory.
package cli
