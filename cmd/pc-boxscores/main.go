package main

import "github.com/thromer/pc-boxscores/internal/cli"

func main() {
	cli.Execute()
}
