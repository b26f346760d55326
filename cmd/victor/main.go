package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/victor/cmd/victor/commands"
	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
	"git.home.luguber.info/inful/victor/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout}
	parser, err := kong.New(cli,
		kong.Name("victor"),
		kong.Description("Build a static website from markdown content."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global, cli),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return ferrors.NewCLIErrorAdapter(false, nil).HandleError(err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
		return 1
	}
	err = kctx.Run()
	return ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
