package pipeline

// ProgressReporter provides callbacks for reporting generation progress.
// Implementations can display progress bars, log messages, or remain silent.
// OnFileExtracted is called from extraction workers and must be goroutine-safe.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(files int)

	// OnExtractionStart is called before files are parsed.
	OnExtractionStart(totalFiles int)

	// OnFileExtracted is called after each file is parsed and extracted.
	OnFileExtracted(path string)

	// OnWritingOutputs is called when generated documents are written.
	OnWritingOutputs(documents int)

	// OnComplete is called when the run completes successfully.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()             {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(files int) {}
func (n *NoOpProgressReporter) OnExtractionStart(total int)   {}
func (n *NoOpProgressReporter) OnFileExtracted(path string)   {}
func (n *NoOpProgressReporter) OnWritingOutputs(docs int)     {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)       {}
