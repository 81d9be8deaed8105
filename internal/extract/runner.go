package extract

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/beancraft/internal/cache"
	"github.com/mvp-joe/beancraft/internal/model"
	"github.com/mvp-joe/beancraft/internal/tsast"
)

// Parser parses one source file. Implementations must be safe for concurrent
// use; the tree-sitter adapter creates a parser per call.
type Parser interface {
	ParseSource(ctx context.Context, path string, source []byte) (*tsast.File, error)
}

// Runner extracts many files in parallel and joins the results.
type Runner struct {
	parser    Parser
	extractor *Extractor
	logger    *zap.Logger
	workers   int
}

// NewRunner creates a runner bounded to GOMAXPROCS workers.
func NewRunner(parser Parser, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		parser:    parser,
		extractor: New(logger),
		logger:    logger,
		workers:   runtime.GOMAXPROCS(0),
	}
}

// WithWorkers overrides the worker bound.
func (r *Runner) WithWorkers(n int) *Runner {
	if n > 0 {
		r.workers = n
	}
	return r
}

// Run extracts every path. A file that cannot be read or parsed is logged and
// recorded with its error; it never stops the other files. onFile, when set,
// is called once per finished file from the worker goroutines.
func (r *Runner) Run(ctx context.Context, paths []string, onFile func(path string)) ([]model.FileResult, error) {
	results := make([]model.FileResult, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.workers)

	for i, path := range paths {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = r.extractPath(ctx, path)
			if onFile != nil {
				onFile(path)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) extractPath(ctx context.Context, path string) model.FileResult {
	source, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("failed to read file", zap.String("file", path), zap.Error(err))
		return model.FileResult{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
	}

	hash := cache.HashContent(source)
	file, err := r.parser.ParseSource(ctx, path, source)
	if err != nil {
		r.logger.Warn("failed to parse file", zap.String("file", path), zap.Error(err))
		return model.FileResult{Path: path, Hash: hash, Err: err}
	}
	file.Hash = hash

	return r.extractor.Extract(file)
}

// Aggregate runs extraction and fans the results into a single set, logging
// declarations that appear in more than one file.
func (r *Runner) Aggregate(ctx context.Context, paths []string, onFile func(path string)) (*model.Aggregate, error) {
	results, err := r.Run(ctx, paths, onFile)
	if err != nil {
		return nil, err
	}

	agg, dups := model.NewAggregate(results)
	for _, d := range dups {
		r.logger.Warn("duplicate declaration, keeping the first by path",
			zap.String("name", d.Name),
			zap.String("kept", d.Kept),
			zap.String("dropped", d.Dropped))
	}
	return agg, nil
}
