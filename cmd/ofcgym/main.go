package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config    string `short:"c" type:"path" default:"ofcgym.hcl" help:"HCL config file (defaults apply when missing)"`
	Debug     bool   `help:"Enable debug logging"`
	LogFormat string `default:"text" enum:"text,json,logfmt" help:"Log format (text, json, logfmt)"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Rollout RolloutCmd       `cmd:"" help:"Play batches of episodes and report statistics"`
	Sample  SampleCmd        `cmd:"" help:"Print random observations"`
	Play    PlayCmd          `cmd:"" help:"Play episodes interactively"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ofcgym"),
		kong.Description("Two-row Open Face Chinese placement environment"),
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
