package watcher

import (
	"context"

	"go.uber.org/zap"
)

// WatchCoordinator routes debounced file changes to the generator. File events
// that arrive during a regeneration are held and delivered once it finishes.
type WatchCoordinator struct {
	files     FileWatcher
	generator Generator
	logger    *zap.Logger
}

// NewWatchCoordinator creates a new watch coordinator.
func NewWatchCoordinator(files FileWatcher, generator Generator, logger *zap.Logger) *WatchCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WatchCoordinator{
		files:     files,
		generator: generator,
		logger:    logger,
	}
}

// Start begins routing change events to the generator.
// Blocks until context is cancelled.
func (c *WatchCoordinator) Start(ctx context.Context) error {
	handler := func(files []string) { c.handleFileChange(ctx, files) }
	if err := c.files.Start(ctx, handler); err != nil {
		c.cleanup()
		return err
	}

	<-ctx.Done()
	c.cleanup()
	return ctx.Err()
}

func (c *WatchCoordinator) cleanup() {
	if err := c.files.Stop(); err != nil {
		c.logger.Warn("file watcher stop failed", zap.Error(err))
	}
}

// handleFileChange regenerates with the file watcher paused. A failed
// regeneration is logged and watching continues.
func (c *WatchCoordinator) handleFileChange(ctx context.Context, files []string) {
	if len(files) == 0 || ctx.Err() != nil {
		return
	}

	c.files.Pause()
	defer c.files.Resume()

	c.logger.Info("change detected, regenerating", zap.Int("files", len(files)))
	if err := c.generator.Generate(ctx, files); err != nil {
		c.logger.Error("regeneration failed", zap.Error(err))
	}
}
