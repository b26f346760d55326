package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/victor/internal/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration and archetypes"`
}

func (i *InitCmd) Run(_ context.Context, g *Global, root *CLI) error {
	_, _ = fmt.Fprintf(g.Out, "Initializing victor project in %s\n", root.Root)
	res, err := scaffold.Init(root.Root, i.Force)
	if err != nil {
		return err
	}
	for _, p := range res.Created {
		_, _ = fmt.Fprintf(g.Out, "  created %s\n", p)
	}
	for _, p := range res.Kept {
		_, _ = fmt.Fprintf(g.Out, "  kept    %s (use --force to overwrite)\n", p)
	}
	return nil
}
