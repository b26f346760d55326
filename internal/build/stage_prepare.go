package build

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/victor/internal/config"
	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
	"git.home.luguber.info/inful/victor/internal/logfields"
	"git.home.luguber.info/inful/victor/internal/markdown"
	"git.home.luguber.info/inful/victor/internal/social"
	"git.home.luguber.info/inful/victor/internal/theme"
)

// FeedFile and SitemapFile are written at the output root.
const (
	FeedFile    = "index.xml"
	SitemapFile = "sitemap.xml"
)

// stageResetOutput wipes and recreates the output directory.
func stageResetOutput(_ context.Context, bs *BuildState) error {
	if err := checkOutputDir(bs.opts); err != nil {
		return newFatalStageError(StageResetOutput, err)
	}
	out := bs.opts.OutputDir
	if err := os.RemoveAll(out); err != nil {
		return newFatalStageError(StageResetOutput, outputWriteFailure(out, err))
	}
	if err := os.MkdirAll(out, 0o750); err != nil {
		return newFatalStageError(StageResetOutput, outputWriteFailure(out, err))
	}
	return nil
}

// stageLoadConfig loads the site configuration and theme, then prepares
// everything derived from them.
func stageLoadConfig(_ context.Context, bs *BuildState) error {
	cfg, err := config.Load(bs.opts.ConfigPath)
	if err != nil {
		return newFatalStageError(StageLoadConfig, err)
	}
	if bs.opts.BaseURL != "" {
		cfg = cfg.WithBaseURL(bs.opts.BaseURL)
	}

	th, err := theme.Load(bs.opts.LayoutsDir)
	if err != nil {
		return newFatalStageError(StageLoadConfig, ferrors.WrapError(err, ferrors.CategoryTemplate, "failed to load templates").
			WithContext(logfields.KeyPath, bs.opts.LayoutsDir).
			Fatal().
			Build())
	}
	for _, name := range th.Overrides() {
		bs.logger.Info("using layout override", logfields.Template(name))
	}

	bs.Config = cfg
	bs.Theme = th
	bs.Report.TemplateOverrides = th.Overrides()
	bs.converter = markdown.New(markdown.Options{
		Unsafe:      cfg.Markdown.Unsafe,
		Highlighter: markdown.NewChromaHighlighter(cfg.Markdown.CodeStyle),
	})
	bs.Site = &SiteContext{
		Config:      cfg,
		SocialLinks: social.Links(cfg.Index.SocialLinks, bs.logger),
		BuildTime:   bs.now,
		LiveReload:  bs.opts.LiveReload,
	}
	bs.writeFeed, bs.writeSitemap = cfg.Build.Feed, cfg.Build.Sitemap
	if (bs.writeFeed || bs.writeSitemap) && !cfg.AbsoluteBaseURL() {
		msg := fmt.Sprintf("base_url %q is not an absolute http(s) URL; skipping feed and sitemap", cfg.BaseURL)
		bs.logger.Warn(msg)
		bs.Report.AddIssue(IssueRelativeBaseURL, StageLoadConfig, SeverityWarning, bs.opts.ConfigPath, msg)
		bs.writeFeed, bs.writeSitemap = false, false
	}
	if bs.writeFeed {
		bs.Site.FeedURL = cfg.URL(FeedFile)
	}
	return nil
}

// stageCopyStatic copies the theme assets to assets/ and then the user's
// static directory over the output root, so user files win.
func stageCopyStatic(ctx context.Context, bs *BuildState) error {
	n, err := copyTree(ctx, theme.Assets(), joinRel(bs.opts.OutputDir, "assets"))
	if err != nil {
		return stageErrorFor(ctx, StageCopyStatic, err)
	}
	bs.logger.Debug("copied theme assets", logfields.Count(n))

	st, err := os.Stat(bs.opts.StaticDir)
	switch {
	case err != nil && os.IsNotExist(err):
		bs.logger.Debug("no static directory", logfields.Path(bs.opts.StaticDir))
		return nil
	case err != nil:
		return newFatalStageError(StageCopyStatic, fmt.Errorf("stat static dir: %w", err))
	case !st.IsDir():
		return newFatalStageError(StageCopyStatic, fmt.Errorf("static path %s is not a directory", bs.opts.StaticDir))
	}

	n, err = copyTree(ctx, os.DirFS(bs.opts.StaticDir), bs.opts.OutputDir)
	if err != nil {
		return stageErrorFor(ctx, StageCopyStatic, err)
	}
	bs.logger.Debug("copied static files", logfields.Path(bs.opts.StaticDir), logfields.Count(n))
	return nil
}

// stageErrorFor classifies err as canceled when ctx is done, fatal otherwise.
func stageErrorFor(ctx context.Context, stage StageName, err error) *StageError {
	if ctx.Err() != nil {
		return newCanceledStageError(stage, ctx.Err())
	}
	return newFatalStageError(stage, err)
}
