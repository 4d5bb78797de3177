package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/duplex/cmd"
	"github.com/lepinkainen/duplex/files"
	"github.com/lepinkainen/duplex/types"
	"github.com/lepinkainen/duplex/utils"
)

var Version = "dev"

type CLI struct {
	cmd.Globals

	Config  kong.ConfigFlag  `help:"Load flag defaults from a YAML file" placeholder:"FILE"`
	Version kong.VersionFlag `help:"Show version and exit"`

	Review   cmd.ReviewCmd   `cmd:"" default:"withargs" help:"Find duplicate files and delete the marked ones (default)"`
	Manifest cmd.ManifestCmd `cmd:"" help:"Write an md5 manifest of the files in folders"`
	Verify   cmd.VerifyCmd   `cmd:"" help:"Check files against md5 manifests"`
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("duplex"),
		kong.Description("Duplex - Delete duplicate files"),
		kong.Configuration(utils.YAMLConfigLoader, utils.DefaultConfigPath()),
		kong.Vars{"version": Version, "default_hash": string(files.DefaultAlgorithm)},
		kong.Bind(&types.AppContext{Name: "Duplex", Version: Version}),
	)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	// kong exits with its own usage code; invalid arguments exit with 1
	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		parser.Errorf("%s", err)
		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) {
			_ = parseErr.Context.PrintUsage(true)
		}
		os.Exit(1)
	}

	log := cli.Logger(os.Stderr)
	if err := ctx.Run(&cli.Globals, log); err != nil {
		log.Error(err)
		if errors.Is(err, cmd.ErrNoTargets) {
			_ = ctx.PrintUsage(false)
		}
		os.Exit(1)
	}
}
