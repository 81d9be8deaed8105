package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/beancraft/internal/pipeline"
)

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	quiet   bool
	out     io.Writer
	mu      sync.Mutex
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet, out: out}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, "Discovering source files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "Found %s source files\n", formatNumber(files))
}

func (c *CLIProgressReporter) OnExtractionStart(totalFiles int) {
	if c.quiet || totalFiles == 0 {
		return
	}
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Extracting declarations"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

// OnFileExtracted is called from extraction workers.
func (c *CLIProgressReporter) OnFileExtracted(path string) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnWritingOutputs(documents int) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}
	c.mu.Unlock()
	fmt.Fprintf(c.out, "Writing %s documents...\n", formatNumber(documents))
}

func (c *CLIProgressReporter) OnComplete(stats *pipeline.Stats) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "✓ Generation complete in %.1fs\n", stats.Duration.Seconds())
	fmt.Fprintf(c.out, "  Files:        %s scanned, %s failed\n",
		formatNumber(stats.FilesScanned), formatNumber(stats.FilesFailed))
	fmt.Fprintf(c.out, "  Declarations: %s (%s tables, %s enums)\n",
		formatNumber(stats.Declarations), formatNumber(stats.Tables), formatNumber(stats.Enums))
	if len(stats.Changed)+len(stats.Unchanged) > 0 {
		fmt.Fprintf(c.out, "  Changes:      %s changed, %s unchanged, %s removed\n",
			formatNumber(len(stats.Changed)), formatNumber(len(stats.Unchanged)), formatNumber(len(stats.Removed)))
	}
	fmt.Fprintf(c.out, "  Outputs:      %s written, %s unchanged\n",
		formatNumber(len(stats.Written)), formatNumber(len(stats.Skipped)))
	if len(stats.Deleted) > 0 {
		fmt.Fprintf(c.out, "  Deleted:      %s stale files\n", formatNumber(len(stats.Deleted)))
	}
}

// formatNumber formats an integer with thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
