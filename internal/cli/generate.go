package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mvp-joe/beancraft/internal/config"
	"github.com/mvp-joe/beancraft/internal/pipeline"
	"github.com/mvp-joe/beancraft/internal/watcher"
)

var watchFlag bool

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate schema documents and TypeScript companion files",
	Long: `Generate scans the configured sources for exported classes, interfaces and
enums and writes:
  - Luban bean and table definitions (schema.output)
  - Luban enum definitions (schema.enum_output)
  - optional per-parent bean type enums (schema.bean_types_output)
  - a Tables interface and a beans dictionary (codegen.output_dir)

Files whose content would not change are left untouched.

Examples:
  # Generate once
  beancraft generate

  # Regenerate whenever a source file changes
  beancraft generate --watch

  # Use an explicit configuration file
  beancraft generate --config ./beancraft.yml
`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for source changes and regenerate")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted! Stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	logger, err := newLogger(verbose, quietFlag)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	rootDir, cfg, err := loadProject()
	if err != nil {
		return err
	}

	gen := newProjectGenerator(rootDir, cfg, logger, cmd.OutOrStdout(), quietFlag)
	if err := gen.Generate(ctx, nil); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("generation cancelled")
		}
		return err
	}

	if !watchFlag {
		return nil
	}
	return watch(ctx, gen)
}

// projectGenerator adapts the pipeline to the watcher's Generator interface.
type projectGenerator struct {
	rootDir  string
	cfg      *config.Config
	logger   *zap.Logger
	pipeline *pipeline.Pipeline
}

func newProjectGenerator(rootDir string, cfg *config.Config, logger *zap.Logger, out io.Writer, quiet bool) *projectGenerator {
	return &projectGenerator{
		rootDir:  rootDir,
		cfg:      cfg,
		logger:   logger,
		pipeline: pipeline.New(rootDir, cfg, logger, NewCLIProgressReporter(out, quiet)),
	}
}

// Generate runs a full generation. changed is informational only.
func (g *projectGenerator) Generate(ctx context.Context, changed []string) error {
	for _, path := range changed {
		g.logger.Debug("source changed", zap.String("file", path))
	}
	_, err := g.pipeline.Run(ctx)
	return err
}

// watchDirs returns the directories to watch: directory sources themselves and
// the parent directory of file sources.
func (g *projectGenerator) watchDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, src := range g.cfg.Sources {
		path := src
		if !filepath.IsAbs(path) {
			path = filepath.Join(g.rootDir, path)
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			path = filepath.Dir(path)
		}
		if !seen[path] {
			seen[path] = true
			dirs = append(dirs, path)
		}
	}
	return dirs
}

// matcher accepts files a directory walk would pick up plus sources named directly.
func (g *projectGenerator) matcher() (watcher.Matcher, error) {
	fd, err := g.pipeline.Discovery()
	if err != nil {
		return nil, err
	}
	direct := make(map[string]bool)
	for _, src := range g.cfg.Sources {
		path := src
		if !filepath.IsAbs(path) {
			path = filepath.Join(g.rootDir, path)
		}
		direct[filepath.Clean(path)] = true
	}
	return func(path string) bool {
		return direct[filepath.Clean(path)] || fd.Matches(path)
	}, nil
}

func watch(ctx context.Context, gen *projectGenerator) error {
	match, err := gen.matcher()
	if err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(gen.watchDirs(), match, watcher.DefaultDebounce, gen.logger)
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	gen.logger.Info("watching for changes", zap.Strings("dirs", gen.watchDirs()))
	coordinator := watcher.NewWatchCoordinator(fw, gen, gen.logger)
	if err := coordinator.Start(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch mode failed: %w", err)
	}

	gen.logger.Info("watch mode stopped")
	return nil
}
