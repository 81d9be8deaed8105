package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the incremental cache",
	Long: `Clean removes the cache file (cache.path, default .beancraft/cache.json).
The next 'beancraft generate' run reports every declaration as changed.

Generated documents and the configuration file are preserved.
`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	rootDir, cfg, err := loadProject()
	if err != nil {
		return err
	}

	path := cfg.Cache.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}
	return cleanCache(cmd.OutOrStdout(), path, quietFlag)
}

// cleanCache deletes the cache file at path. A missing cache is not an error.
func cleanCache(out io.Writer, path string, quiet bool) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if !quiet {
			fmt.Fprintln(out, "No cache found for this project")
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat cache: %w", err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove cache: %w", err)
	}

	if !quiet {
		fmt.Fprintf(out, "✓ Removed cache %s (~%.1f KB)\n", path, float64(info.Size())/1024)
	}
	return nil
}
