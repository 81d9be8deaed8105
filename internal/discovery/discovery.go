// Package discovery finds the source files a run should extract.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrSourceNotFound indicates a configured source location does not exist
	ErrSourceNotFound = errors.New("source not found")

	// ErrWrongKind indicates a source that is neither a regular file nor a directory
	ErrWrongKind = errors.New("source is not a file or directory")
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery handles file discovery with glob patterns and ignore rules.
type FileDiscovery struct {
	rootDir         string
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern
}

// NewFileDiscovery creates a new file discovery instance.
func NewFileDiscovery(rootDir string, includePatterns, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		rootDir: rootDir,
	}

	for _, pattern := range includePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		fd.includePatterns = append(fd.includePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		fd.ignorePatterns = append(fd.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return fd, nil
}

// CheckSources verifies every source exists and is a file or directory.
func (fd *FileDiscovery) CheckSources(sources []string) error {
	for _, src := range sources {
		info, err := os.Stat(fd.abs(src))
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrSourceNotFound, src)
			}
			return fmt.Errorf("failed to stat source %s: %w", src, err)
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			return fmt.Errorf("%w: %s", ErrWrongKind, src)
		}
	}
	return nil
}

// DiscoverFiles returns the absolute paths of all source files, sorted and
// de-duplicated. Directories are walked and filtered by the include and
// ignore patterns; files named directly are always included.
func (fd *FileDiscovery) DiscoverFiles(sources []string) ([]string, error) {
	if err := fd.CheckSources(sources); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, src := range sources {
		root := fd.abs(src)
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat source %s: %w", src, err)
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			relPath, err := filepath.Rel(fd.rootDir, path)
			if err != nil {
				return err
			}

			// Normalize path separators for glob matching
			relPath = filepath.ToSlash(relPath)

			if info.IsDir() {
				if path != root && fd.shouldIgnore(relPath) {
					return filepath.SkipDir
				}
				return nil
			}

			if fd.shouldIgnore(relPath) {
				return nil
			}

			if fd.matchesAnyPattern(relPath, fd.includePatterns) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", src, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// Matches reports whether a path (absolute or root-relative) would be picked up
// by a directory walk. Used by watch mode to filter change events.
func (fd *FileDiscovery) Matches(path string) bool {
	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return false
		}
		rel = r
	}
	rel = filepath.ToSlash(rel)
	return !fd.shouldIgnore(rel) && fd.matchesAnyPattern(rel, fd.includePatterns)
}

func (fd *FileDiscovery) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(fd.rootDir, p)
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	// Always ignore the beancraft directory
	if strings.HasPrefix(relPath, ".beancraft/") || relPath == ".beancraft" {
		return true
	}

	if fd.matchesAnyPattern(relPath, fd.ignorePatterns) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "node_modules" should match pattern "node_modules/**"
	pathWithSuffix := relPath + "/**"
	return fd.matchesAnyPattern(pathWithSuffix, fd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (fd *FileDiscovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// Special handling: if path is in root (no slash), also try matching against
	// patterns with **/ prefix removed. This makes "**/*.ts" match both "item.ts"
	// and "src/item.ts" as users would expect.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}

	return false
}
