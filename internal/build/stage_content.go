package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"git.home.luguber.info/inful/victor/internal/docmodel"
	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
	"git.home.luguber.info/inful/victor/internal/frontmatter"
	"git.home.luguber.info/inful/victor/internal/logfields"
)

// SourceFile is the name of the markdown copy written next to each page.
const SourceFile = "index.md"

// stageConvertContent discovers content files and renders each one. A file
// that cannot be parsed or rendered is skipped with a warning; failing to
// write output stops the build.
func stageConvertContent(ctx context.Context, bs *BuildState) error {
	files, err := discoverContent(bs.opts.ContentDir, bs.Config.Build.Ignore)
	if err != nil {
		return newFatalStageError(StageConvertContent, err)
	}
	bs.Report.DocumentsDiscovered = len(files)
	if len(files) == 0 {
		bs.logger.Warn("no content files found", logfields.Path(bs.opts.ContentDir))
		bs.Report.AddIssue(IssueNoContent, StageConvertContent, SeverityWarning, bs.opts.ContentDir, "no markdown files found")
	}

	opts := docmodel.Options{Now: bs.now, Converter: bs.converter}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageConvertContent, err)
		}
		if err := bs.convert(f, opts); err != nil {
			// Fatal errors such as output write failures stop the build;
			// anything else only costs this document.
			if c, ok := ferrors.AsClassified(err); ok && c.IsFatal() {
				return newFatalStageError(StageConvertContent, err)
			}
			bs.skip(f.Rel, err)
		}
	}

	bs.logger.Info("content converted",
		logfields.Count(bs.Report.DocumentsRendered),
		logfields.Stage(string(StageConvertContent)))
	if bs.Report.DocumentsSkipped > 0 {
		return newWarnStageError(StageConvertContent,
			fmt.Errorf("%d of %d documents skipped", bs.Report.DocumentsSkipped, len(files)))
	}
	return nil
}

func (bs *BuildState) convert(f ContentFile, opts docmodel.Options) error {
	// #nosec G304 -- path comes from content discovery
	raw, err := os.ReadFile(f.Abs)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read document").
			WithContext(logfields.KeyPath, f.Rel).
			Build()
	}
	doc, err := docmodel.Parse(f.Rel, raw, opts)
	if err != nil {
		return err
	}

	class := Classify(f.Rel)
	page, err := bs.render(class.Template(), PageContext{
		Site:      bs.Site,
		PageTitle: PageTitle(f.Rel),
		Post:      doc,
	})
	if err != nil {
		return err
	}

	if err := bs.writeOutput(StageConvertContent, doc.OutputPath(), page, f.Rel); err != nil {
		return err
	}
	if err := bs.writeOutput(StageConvertContent, path.Join(doc.OutputDir(), SourceFile), raw, f.Rel); err != nil {
		return err
	}

	bs.Entries = append(bs.Entries, entry{Doc: doc, Class: class})
	bs.Report.DocumentsRendered++
	bs.logger.Debug("document rendered",
		logfields.File(f.Rel),
		logfields.Template(class.Template()),
		logfields.Path(doc.OutputPath()))
	return nil
}

// skip records a per-document failure.
func (bs *BuildState) skip(rel string, err error) {
	bs.Report.DocumentsSkipped++
	code := IssueContentError
	switch {
	case errors.Is(err, frontmatter.ErrMalformedDocument):
		code = IssueMalformedDocument
	case errors.Is(err, docmodel.ErrMissingRequiredField):
		code = IssueMissingField
	case ferrors.GetCategory(err) == ferrors.CategoryTemplate:
		code = IssueTemplateExecution
	}
	bs.Report.AddIssue(code, StageConvertContent, SeverityWarning, rel, err.Error())

	attrs := []any{logfields.File(rel), logfields.Error(err)}
	if c, ok := ferrors.AsClassified(err); ok && c.Hint() != "" {
		attrs = append(attrs, "hint", c.Hint())
	}
	bs.logger.Warn("skipping document", attrs...)
}
