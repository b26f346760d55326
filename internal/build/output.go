package build

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/victor/internal/logfields"
)

func joinRel(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

// writeOutput writes data to rel inside the output directory. owner names
// what produced the file and is used to report collisions; the later write
// wins.
func (bs *BuildState) writeOutput(stage StageName, rel string, data []byte, owner string) error {
	rel = path.Clean(rel)
	if prev, ok := bs.written[rel]; ok && prev != owner {
		msg := fmt.Sprintf("%s overwrites output of %s", owner, prev)
		bs.logger.Warn("output collision", logfields.Path(rel), logfields.File(owner), slog.String("previous", prev))
		bs.Report.AddIssue(IssueOutputCollision, stage, SeverityWarning, rel, msg)
	}
	bs.written[rel] = owner

	dst := joinRel(bs.opts.OutputDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return outputWriteFailure(rel, err)
	}
	// #nosec G306 -- site output is public
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return outputWriteFailure(rel, err)
	}
	return nil
}

// copyTree copies every regular file in src into dstDir, replacing files
// that already exist.
func copyTree(ctx context.Context, src fs.FS, dstDir string) (int, error) {
	n := 0
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		target := joinRel(dstDir, p)
		if d.IsDir() {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return outputWriteFailure(p, err)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(src, p, target); err != nil {
			return outputWriteFailure(p, err)
		}
		n++
		return nil
	})
	return n, err
}

func copyFile(src fs.FS, name, target string) error {
	in, err := src.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	// #nosec G304 -- target is inside the output directory
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// checkOutputDir refuses output directories whose removal would destroy
// the project: the filesystem root, the project root itself, or any
// directory containing the content tree.
func checkOutputDir(opts Options) error {
	out, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return err
	}
	if out == filepath.Dir(out) {
		return unsafeOutputDir(out, "output directory is the filesystem root")
	}
	if root, err := filepath.Abs(opts.Root); err == nil && root == out {
		return unsafeOutputDir(out, "output directory is the project root")
	}
	for _, protected := range []string{opts.ContentDir, opts.StaticDir, opts.LayoutsDir} {
		abs, err := filepath.Abs(protected)
		if err != nil {
			continue
		}
		if within(out, abs) {
			return unsafeOutputDir(out, "output directory contains "+filepath.Base(abs))
		}
	}
	return nil
}

// within reports whether p is dir or lies below it.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
