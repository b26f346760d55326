package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// contentPattern matches every markdown file below the content root.
const contentPattern = "**/*.{md,markdown}"

// ContentFile is a discovered markdown file.
type ContentFile struct {
	// Rel is slash separated and relative to the content root.
	Rel string
	// Abs is the path on disk.
	Abs string
}

// discoverContent lists markdown files under root in lexical order, leaving
// out any path matched by one of the ignore patterns.
func discoverContent(root string, ignore []string) ([]ContentFile, error) {
	st, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, contentRootMissing(root)
		}
		return nil, fmt.Errorf("stat content root: %w", err)
	}
	if !st.IsDir() {
		return nil, contentRootMissing(root)
	}

	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, contentPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("error evaluating pattern %s: %w", contentPattern, err)
	}
	sort.Strings(matches)

	files := make([]ContentFile, 0, len(matches))
	for _, match := range matches {
		if ignored(match, ignore) {
			continue
		}
		files = append(files, ContentFile{Rel: match, Abs: joinRel(root, match)})
	}
	return files, nil
}

func ignored(rel string, patterns []string) bool {
	for _, p := range patterns {
		// Patterns were validated when the config loaded.
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
