package commands

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/victor/internal/build"
	"git.home.luguber.info/inful/victor/internal/metrics"
	"git.home.luguber.info/inful/victor/internal/preview"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port   int    `short:"p" help:"Port to listen on" default:"8000"`
	Bind   string `help:"Address to bind; empty binds all interfaces" default:""`
	Output string `short:"o" help:"Directory to serve, relative to the project root" default:"public"`
	Watch  bool   `short:"w" help:"Rebuild on changes and reload open pages"`
}

func (s *ServeCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	opts := root.pipelineOptions()
	opts.OutputDir = s.Output
	addr := net.JoinHostPort(s.Bind, strconv.Itoa(s.Port))

	if !s.Watch {
		dir := resolved(root.Root, s.Output)
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			return requireBuilt(dir)
		}
		return preview.NewServer(dir, addr, g.Logger).ListenAndServe(ctx)
	}

	// Links must resolve against the preview server, not the deployed site.
	opts.BaseURL = "/"
	opts.LiveReload = true
	rec := metrics.NewPrometheusRecorder(nil)
	pipeline := build.New(opts, build.WithLogger(g.Logger), build.WithRecorder(rec))
	resolvedOpts := pipeline.Options()

	status := &preview.BuildStatus{}
	if err := pipeline.Build(ctx); err != nil {
		// The first build must succeed; later failures keep the last good site.
		return err
	}
	status.SetSuccess()

	hub := preview.NewReloadHub(g.Logger)
	srv := preview.NewServer(resolvedOpts.OutputDir, addr, g.Logger,
		preview.WithReload(hub),
		preview.WithStatus(status),
		preview.WithMetrics(rec.Registry()),
	)
	w := &preview.Watcher{
		Paths:   []string{resolvedOpts.ContentDir, resolvedOpts.StaticDir, resolvedOpts.LayoutsDir, resolvedOpts.ConfigPath},
		Rebuild: pipeline.Build,
		Status:  status,
		Reload:  hub,
		Logger:  g.Logger,
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error { return srv.ListenAndServe(gctx) })
	grp.Go(func() error { return w.Run(gctx) })
	return grp.Wait()
}

func resolved(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
