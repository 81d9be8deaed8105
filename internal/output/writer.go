// Package output writes generated documents, skipping files whose content is
// already up to date.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrWrite wraps every failure to write a generated document.
var ErrWrite = errors.New("output write failed")

// Document is one generated file. Relative paths are resolved against the
// writer's root.
type Document struct {
	Path    string
	Content string
}

// Result lists which documents were written and which were left untouched.
type Result struct {
	Written   []string
	Unchanged []string
}

// Writer writes documents under a root directory.
type Writer struct {
	root   string
	logger *zap.Logger
}

// NewWriter creates a writer rooted at root.
func NewWriter(root string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{root: root, logger: logger}
}

// Resolve returns the absolute location of a document path.
func (w *Writer) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(w.root, path)
}

// Write writes doc unless the file already holds exactly the same bytes.
func (w *Writer) Write(doc Document) (bool, error) {
	path := w.Resolve(doc.Path)
	content := []byte(doc.Content)

	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		w.logger.Debug("output unchanged", zap.String("path", path))
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("%w: failed to create directory for %s: %v", ErrWrite, path, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0644); err != nil {
		return false, fmt.Errorf("%w: failed to write %s: %v", ErrWrite, path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("%w: failed to rename %s: %v", ErrWrite, path, err)
	}

	w.logger.Debug("output written", zap.String("path", path), zap.Int("bytes", len(content)))
	return true, nil
}

// WriteAll writes every document, stopping at the first failure.
func (w *Writer) WriteAll(docs []Document) (Result, error) {
	var result Result
	for _, doc := range docs {
		changed, err := w.Write(doc)
		if err != nil {
			return result, err
		}
		if changed {
			result.Written = append(result.Written, doc.Path)
		} else {
			result.Unchanged = append(result.Unchanged, doc.Path)
		}
	}
	return result, nil
}

// Remove deletes generated files that are no longer produced. Files that are
// already gone are not an error.
func (w *Writer) Remove(paths []string) ([]string, error) {
	var removed []string
	for _, p := range paths {
		path := w.Resolve(p)
		if err := os.Remove(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("%w: failed to remove %s: %v", ErrWrite, path, err)
		}
		w.logger.Debug("output removed", zap.String("path", path))
		removed = append(removed, p)
	}
	return removed, nil
}
