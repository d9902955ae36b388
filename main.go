// Package main is the entry point for the fxrates command line and bot.
package main

import (
	"os"

	"gitlab.com/yelinaung/fxrates/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Execute(cli.BuildInfo{Version: version, Commit: commit, Date: date}))
}
