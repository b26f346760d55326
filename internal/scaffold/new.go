package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/victor/internal/frontmatter"
)

// NewContent creates content/<rel> from archetypes/default.<ext>. The
// archetype header gets its first substitution applied; the body is copied
// as is. Without a matching archetype an empty file is created. Existing
// files are never overwritten. It returns the path written.
func NewContent(root, rel string, now time.Time) (string, error) {
	contentDir := filepath.Join(root, "content")
	if fi, err := os.Stat(contentDir); err != nil || !fi.IsDir() {
		return "", notInitialized(contentDir)
	}

	data, err := fromArchetype(root, rel, now)
	if err != nil {
		return "", err
	}
	return writeNew(contentDir, rel, data)
}

func fromArchetype(root, rel string, now time.Time) ([]byte, error) {
	ext := strings.TrimPrefix(filepath.Ext(rel), ".")
	if ext == "" {
		return nil, nil
	}
	path := filepath.Join(root, ArchetypesDir, "default."+ext)
	// #nosec G304 -- archetype path is built from the project root
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fsError(err, "cannot read archetype", path)
	}

	block, err := frontmatter.Split(raw)
	if err != nil {
		// Archetypes without a header are copied verbatim.
		return raw, nil
	}
	yml, _, err := frontmatter.Substitute(block.YAML, now)
	if err != nil {
		return nil, fmt.Errorf("archetype %s: %w", path, err)
	}
	block.YAML = yml
	return frontmatter.Join(block), nil
}

// writeNew creates dir/rel exclusively.
func writeNew(dir, rel string, content []byte) (string, error) {
	if rel == "" {
		return "", invalidPath(rel, "path is required")
	}
	cleanRel := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleanRel) || cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", invalidPath(rel, "path must stay inside the content directory")
	}
	fullPath := filepath.Join(dir, cleanRel)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fsError(err, "cannot create content directory", filepath.Dir(fullPath))
	}
	// #nosec G304 -- fullPath is validated to stay under dir
	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fileExists(fullPath)
		}
		return "", fsError(err, "cannot create content file", fullPath)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Write(content); err != nil {
		return "", fsError(err, "cannot write content file", fullPath)
	}
	return fullPath, nil
}
