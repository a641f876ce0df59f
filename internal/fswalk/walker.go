// Package fswalk enumerates local source files for the batch pipeline.
package fswalk

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Entry is one regular file found under a walk root.
type Entry struct {
	// Path is the file's absolute path.
	Path string
	// Rel is the path relative to the walk root, using the platform separator.
	Rel string
}

// Walk recursively enumerates every regular file under root. When exts is
// non-empty, files whose (lowercased) extension is not in the set are silently
// skipped. Any directory read failure aborts the walk with no partial results.
// Symlink cycles are not guarded against.
func Walk(root string, exts []string) ([]Entry, error) {
	accepted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		accepted[strings.ToLower(ext)] = struct{}{}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	var entries []Entry
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(accepted) > 0 {
			if _, ok := accepted[strings.ToLower(filepath.Ext(path))]; !ok {
				return nil
			}
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Path: path, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return entries, nil
}
