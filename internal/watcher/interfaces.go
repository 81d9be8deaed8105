package watcher

import "context"

// FileWatcher monitors source files for changes with debouncing and pause/resume support.
type FileWatcher interface {
	// Start begins watching source directories, calling callback with debounced file changes.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error

	// Pause stops firing callbacks but continues accumulating events.
	Pause()

	// Resume resumes firing callbacks. If events accumulated during pause, fires immediately.
	Resume()
}

// Generator regenerates every output. changed lists the files that triggered
// the run; a full regeneration is always performed.
type Generator interface {
	Generate(ctx context.Context, changed []string) error
}

// Matcher reports whether a changed path should trigger regeneration.
type Matcher func(path string) bool
