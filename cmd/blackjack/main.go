package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play against the dealer in the terminal"`
	Duel     DuelCmd          `cmd:"" help:"Two players share the terminal, no dealer and no money"`
	Serve    ServeCmd         `cmd:"" help:"Serve tables over HTTP and websockets"`
	Simulate SimulateCmd      `cmd:"" help:"Estimate a strategy's return over many rounds"`
	Bot      BotCmd           `cmd:"" help:"Play a table on a running server with a fixed strategy"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-table blackjack for the terminal and the web"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
