package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DiscoverFiles returns the files below basePath matching pattern, relative to basePath with slash
// separators, in walk order.  Dotfiles and anything inside a dot-directory are never returned.
//
// "**" matches any number of directories, including none, so "**/*.md" also picks up Markdown
// files at the top level.
func DiscoverFiles(basePath string, pattern string) ([]string, error) {
	if _, err := os.Stat(basePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, fmt.Errorf("importer: base path %s doesn't exist: %w", basePath, err)
		}
		return []string{}, fmt.Errorf("importer: couldn't open %s for file tree walk: %w", basePath, err)
	}

	matchers, err := compilePattern(filepath.ToSlash(pattern))
	if err != nil {
		return []string{}, err
	}

	filenames := []string{}
	err = filepath.WalkDir(basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("importer: error during file tree walk: %w", err)
		}
		if p == basePath {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(basePath, p)
		if err != nil {
			return fmt.Errorf("importer: couldn't compute relative path of %s: %w", p, err)
		}
		rel = filepath.ToSlash(rel)
		for _, m := range matchers {
			if m.Match(rel) {
				filenames = append(filenames, rel)
				break
			}
		}
		return nil
	})
	if err != nil {
		return []string{}, err
	}

	return filenames, nil
}

// compilePattern compiles pattern, plus every variant with some of its "**/" removed so that they
// can match zero directories.
func compilePattern(pattern string) ([]glob.Glob, error) {
	variants := map[string]bool{}
	var expand func(s string, from int)
	expand = func(s string, from int) {
		variants[s] = true
		for i := from; i < len(s); {
			j := strings.Index(s[i:], "**/")
			if j < 0 {
				return
			}
			at := i + j
			expand(s[:at]+s[at+3:], at)
			i = at + 3
		}
	}
	expand(pattern, 0)

	matchers := make([]glob.Glob, 0, len(variants))
	for v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, fmt.Errorf("importer: couldn't compile glob '%s': %w", pattern, err)
		}
		matchers = append(matchers, g)
	}
	return matchers, nil
}
