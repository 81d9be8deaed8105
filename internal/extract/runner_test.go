package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mvp-joe/beancraft/internal/cache"
	"github.com/mvp-joe/beancraft/internal/parser"
)

// Test Plan for parallel extraction:
// - Every file is extracted and results keep the input order
// - A file that fails to parse is logged and contributes no records
// - An unreadable file is logged and recorded as failed
// - Content hashes are attached to records
// - The progress callback fires once per file
// - Aggregation reports duplicates and sorts by name regardless of worker count

func writeTS(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunner_ExtractsFilesInParallel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var paths []string
	for i := 0; i < 12; i++ {
		paths = append(paths, writeTS(t, dir, fmt.Sprintf("bean%02d.ts", i),
			fmt.Sprintf("export class Bean%02d {\n  id: number;\n}\n", i)))
	}

	var calls atomic.Int32
	runner := NewRunner(parser.NewTypeScriptParser(), nil).WithWorkers(4)
	results, err := runner.Run(context.Background(), paths, func(string) { calls.Add(1) })
	require.NoError(t, err)

	require.Len(t, results, len(paths))
	assert.Equal(t, int32(len(paths)), calls.Load())
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
		require.NoError(t, r.Err)
		require.Len(t, r.Declarations, 1)
		assert.Equal(t, fmt.Sprintf("Bean%02d", i), r.Declarations[0].Name)
	}

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, cache.HashContent(data), results[0].Declarations[0].Hash)
}

func TestRunner_FailedFilesDegradeToWarnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeTS(t, dir, "good.ts", "export class Good {\n  id: number;\n}\n")
	bad := writeTS(t, dir, "bad.ts", "export class Bad {\n  name: = ;\n}\n")
	missing := filepath.Join(dir, "missing.ts")

	core, logs := observer.New(zapcore.WarnLevel)
	runner := NewRunner(parser.NewTypeScriptParser(), zap.New(core))

	agg, err := runner.Aggregate(context.Background(), []string{good, bad, missing}, nil)
	require.NoError(t, err)

	require.Len(t, agg.Declarations, 1)
	assert.Equal(t, "Good", agg.Declarations[0].Name)
	assert.ElementsMatch(t, []string{bad, missing}, agg.FailedFiles)

	assert.Equal(t, 1, logs.FilterMessage("failed to parse file").Len())
	assert.Equal(t, 1, logs.FilterMessage("failed to read file").Len())
}

func TestRunner_AggregateIsOrderIndependent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeTS(t, dir, "a.ts", "export class Zeta {}\nexport class Shared {}\n")
	b := writeTS(t, dir, "b.ts", "export class Alpha {}\nexport class Shared {}\nexport enum Kind { A }\n")

	core, logs := observer.New(zapcore.WarnLevel)
	run := func(paths []string, workers int) []string {
		agg, err := NewRunner(parser.NewTypeScriptParser(), zap.New(core)).WithWorkers(workers).
			Aggregate(context.Background(), paths, nil)
		require.NoError(t, err)
		var names []string
		for _, d := range agg.Declarations {
			names = append(names, d.Name+"@"+filepath.Base(d.SourcePath))
		}
		require.Len(t, agg.Enums, 1)
		return names
	}

	first := run([]string{a, b}, 1)
	second := run([]string{b, a}, 3)

	assert.Equal(t, []string{"Alpha@b.ts", "Shared@a.ts", "Zeta@a.ts"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, logs.FilterMessage("duplicate declaration, keeping the first by path").Len())
}

func TestRunner_CancelledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTS(t, dir, "a.ts", "export class A {}\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(parser.NewTypeScriptParser(), nil).Run(ctx, []string{path}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
