package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/victor/internal/build"
	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
	"git.home.luguber.info/inful/victor/internal/logfields"
	"git.home.luguber.info/inful/victor/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory, relative to the project root" default:"public"`
	BaseURL     string `name:"base-url" help:"Override base_url from the configuration"`
	Report      string `help:"Write build-report.json and build-report.txt into this directory" type:"path"`
	MetricsFile string `name:"metrics-file" help:"Write build metrics in the Prometheus text format to this file" type:"path"`
}

func (b *BuildCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	opts := root.pipelineOptions()
	opts.OutputDir = b.Output
	opts.BaseURL = b.BaseURL

	pipelineOpts := []build.Option{build.WithLogger(g.Logger)}
	var rec *metrics.PrometheusRecorder
	if b.MetricsFile != "" {
		rec = metrics.NewPrometheusRecorder(nil)
		pipelineOpts = append(pipelineOpts, build.WithRecorder(rec))
	}

	report, err := build.New(opts, pipelineOpts...).Run(ctx)
	if report != nil {
		printSummary(g.Out, report)
		if b.Report != "" {
			if perr := report.Persist(b.Report); perr != nil {
				g.Logger.Warn("cannot write build report", logfields.Path(b.Report), logfields.Error(perr))
			}
		}
	}
	if rec != nil {
		if werr := rec.WriteTextfile(b.MetricsFile); werr != nil {
			g.Logger.Warn("cannot write metrics file", logfields.Path(b.MetricsFile), logfields.Error(werr))
		}
	}
	if err != nil {
		return err
	}
	if report.Outcome == build.OutcomeWarning {
		_, _ = fmt.Fprintln(g.Out, "Site built with warnings; see the issues above.")
	}
	return nil
}

// requireBuilt reports a not-found error when the output directory is
// missing.
func requireBuilt(dir string) error {
	return ferrors.NotFoundError("nothing to serve").
		WithContext("path", dir).
		WithHint(`run "victor build" first, or pass --watch`).
		Build()
}
