package main

import (
	"github.com/alecthomas/kong"
	"github.com/wolfeidau/filedepot/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login    commands.LoginCmd    `cmd:"" help:"Log in to a filedepot server"`
		Logout   commands.LogoutCmd   `cmd:"" help:"Discard stored credentials"`
		Orgs     commands.OrgsCmd     `cmd:"" help:"List organizations with download totals"`
		Files    commands.FilesCmd    `cmd:"" help:"List files"`
		Upload   commands.UploadCmd   `cmd:"" help:"Upload a file into an organization"`
		Download commands.DownloadCmd `cmd:"" help:"Download a file"`
		History  commands.HistoryCmd  `cmd:"" help:"Show download history for a file or user"`
		Debug    bool                 `help:"Enable debug mode."`
		Version  kong.VersionFlag
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
