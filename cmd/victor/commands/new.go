package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/victor/internal/scaffold"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Path string `arg:"" help:"File to create, relative to the content directory (e.g. posts/hello.md)"`
}

func (n *NewCmd) Run(_ context.Context, g *Global, root *CLI) error {
	path, err := scaffold.NewContent(root.Root, n.Path, time.Now())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "Created %s\n", path)
	return nil
}
