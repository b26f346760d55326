package build

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/victor/internal/config"
	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
	"git.home.luguber.info/inful/victor/internal/logfields"
	"git.home.luguber.info/inful/victor/internal/metrics"
)

// Default project layout, relative to the project root.
const (
	DefaultConfigFile = "config.yaml"
	DefaultContentDir = "content"
	DefaultStaticDir  = "static"
	DefaultLayoutsDir = "layouts"
	DefaultOutputDir  = "public"
)

// Options locate the project and control a build. Empty paths take the
// defaults above, resolved against Root.
type Options struct {
	Root       string
	ConfigPath string
	ContentDir string
	StaticDir  string
	LayoutsDir string
	OutputDir  string

	// BaseURL replaces base_url from the configuration when set.
	BaseURL string
	// LiveReload adds the preview reload script to rendered pages.
	LiveReload bool

	// Now is the build clock. Undated documents take its value.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Root == "" {
		o.Root = "."
	}
	resolve := func(p, def string) string {
		if p == "" {
			p = def
		}
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(o.Root, p)
	}
	o.ConfigPath = resolve(o.ConfigPath, DefaultConfigFile)
	o.ContentDir = resolve(o.ContentDir, DefaultContentDir)
	o.StaticDir = resolve(o.StaticDir, DefaultStaticDir)
	o.LayoutsDir = resolve(o.LayoutsDir, DefaultLayoutsDir)
	o.OutputDir = resolve(o.OutputDir, DefaultOutputDir)
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Pipeline runs full site builds. A Pipeline may be reused for several
// sequential builds, but two builds must never write the same output
// directory at the same time.
type Pipeline struct {
	opts     Options
	logger   *slog.Logger
	observer BuildObserver
	stages   []StageDef
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRecorder reports stage and build metrics to rec.
func WithRecorder(rec metrics.Recorder) Option {
	return func(p *Pipeline) {
		if rec != nil {
			p.observer = recorderObserver{rec: rec}
		}
	}
}

// WithObserver installs a custom observer, replacing any recorder.
func WithObserver(o BuildObserver) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

// New returns a pipeline for the project described by opts.
func New(opts Options, options ...Option) *Pipeline {
	p := &Pipeline{
		opts:     opts.withDefaults(),
		logger:   slog.Default(),
		observer: NoopObserver{},
		stages:   defaultStages(),
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Options returns the resolved options.
func (p *Pipeline) Options() Options { return p.opts }

// Run performs one full build. The report is returned even when the build
// fails; the error is the fatal StageError that stopped it.
func (p *Pipeline) Run(ctx context.Context) (*BuildReport, error) {
	start := p.opts.Now()
	id := uuid.NewString()
	logger := p.logger.With(logfields.BuildID(id))

	report := newBuildReport(id, start)
	bs := newBuildState(p.opts, logger, report)
	bs.now = start

	logger.Info("build started", logfields.Path(p.opts.OutputDir))
	err := runStages(ctx, bs, p.observer, p.stages)
	if err != nil {
		recordFatalIssue(report, err)
	}
	report.finish(time.Now())
	p.observer.OnBuildComplete(report)

	attrs := []any{
		slog.String("outcome", string(report.Outcome)),
		logfields.Count(report.DocumentsRendered),
		slog.Int("skipped", report.DocumentsSkipped),
		logfields.DurationMS(float64(report.Duration()) / float64(time.Millisecond)),
	}
	if err != nil {
		logger.Error("build failed", append(attrs,
			logfields.Error(err),
			slog.String("category", string(ferrors.GetCategory(err))),
			slog.String("severity", string(ferrors.GetSeverity(err))),
		)...)
		return report, err
	}
	logger.Info("build finished", attrs...)
	return report, nil
}

// Build runs the pipeline and discards the report.
func (p *Pipeline) Build(ctx context.Context) error {
	_, err := p.Run(ctx)
	return err
}

func recordFatalIssue(report *BuildReport, err error) {
	var se *StageError
	stage := StageName("")
	if errors.As(err, &se) {
		stage = se.Stage
		if se.Kind == StageErrorCanceled {
			report.AddIssue(IssueCanceled, stage, SeverityError, "", err.Error())
			return
		}
	}
	code := IssueGenericStageError
	category := ferrors.GetCategory(err)
	switch {
	case errors.Is(err, ErrOutputWriteFailure):
		code = IssueOutputWrite
	case errors.Is(err, config.ErrConfigNotFound), errors.Is(err, config.ErrConfigFieldMissing),
		category == ferrors.CategoryConfig:
		code = IssueConfig
	case category == ferrors.CategoryTemplate:
		code = IssueTemplateExecution
	}
	path := ""
	if c, ok := ferrors.AsClassified(err); ok {
		path, _ = c.Context().GetString(logfields.KeyPath)
	}
	report.AddIssue(code, stage, SeverityError, path, err.Error())
}
