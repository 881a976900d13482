package main

import (
	"github.com/alecthomas/kong"
	"github.com/wolfeidau/filedepot/cmd/server/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug     bool `help:"Enable debug mode."`
		Version   kong.VersionFlag
		Server    commands.ServerCmd    `cmd:"" help:"Start the file storage API server"`
		Bootstrap commands.BootstrapCmd `cmd:"" help:"Create an organization and a member user"`
	}
)

func main() {
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		})
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
