package cli

// Test Plan for CLI progress and logging:
// - formatNumber inserts thousands separators
// - The quiet reporter writes nothing
// - The reporter prints a summary with counts on completion
// - Log level follows --verbose and --quiet, quiet winning

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/mvp-joe/beancraft/internal/pipeline"
)

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		1234567: "1,234,567",
	}
	for n, want := range cases {
		assert.Equal(t, want, formatNumber(n))
	}
}

func TestCLIProgressReporter_Quiet(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewCLIProgressReporter(&out, true)
	r.OnDiscoveryStart()
	r.OnDiscoveryComplete(3)
	r.OnExtractionStart(3)
	r.OnFileExtracted("a.ts")
	r.OnWritingOutputs(2)
	r.OnComplete(&pipeline.Stats{})

	assert.Empty(t, out.String())
}

func TestCLIProgressReporter_Summary(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewCLIProgressReporter(&out, false)
	r.OnDiscoveryStart()
	r.OnDiscoveryComplete(2)
	r.OnExtractionStart(2)
	r.OnFileExtracted("a.ts")
	r.OnFileExtracted("b.ts")
	r.OnWritingOutputs(4)
	r.OnComplete(&pipeline.Stats{
		FilesScanned: 2,
		Declarations: 5,
		Tables:       2,
		Enums:        1,
		Changed:      []string{"Item"},
		Unchanged:    []string{"Hero", "Quality"},
		Written:      []string{"defines/beans.xml"},
		Skipped:      []string{"defines/enums.xml"},
		Duration:     1500 * time.Millisecond,
	})

	s := out.String()
	assert.Contains(t, s, "Found 2 source files")
	assert.Contains(t, s, "Writing 4 documents")
	assert.Contains(t, s, "Generation complete in 1.5s")
	assert.Contains(t, s, "5 (2 tables, 1 enums)")
	assert.Contains(t, s, "1 changed, 2 unchanged, 0 removed")
	assert.Contains(t, s, "1 written, 1 unchanged")
	assert.NotContains(t, s, "Deleted:")
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zapcore.InfoLevel, logLevel(false, false))
	assert.Equal(t, zapcore.DebugLevel, logLevel(true, false))
	assert.Equal(t, zapcore.ErrorLevel, logLevel(false, true))
	assert.Equal(t, zapcore.ErrorLevel, logLevel(true, true))
}
