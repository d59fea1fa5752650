package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-engine/internal/index"
	"search-engine/internal/workerpool"
)

func identity(w string) string { return w }

func buildSampleIndex() index.Index {
	idx := index.NewUnlocked()
	idx.AddAll([]string{"cat"}, "short.txt", 1)
	idx.AddAll([]string{"x", "x", "x", "cat", "x", "x", "x", "x", "x", "x"}, "long.txt", 1)

	return idx
}

// S5 - canonical queries: "foo bar" and "bar foo" collapse to one key.
func TestScenario_CanonicalQueriesCollapse(t *testing.T) {
	idx := index.NewUnlocked()
	idx.AddAll([]string{"foo", "bar"}, "a.txt", 1)

	dir := t.TempDir()
	path := filepath.Join(dir, "queries.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo bar\nbar foo\n"), 0o644))

	e := New(idx, identity, Exact)
	require.NoError(t, e.ProcessFile(path))

	assert.Equal(t, []string{"bar foo"}, e.Queries())
}

func TestEngine_EmptyLineIsNoOp(t *testing.T) {
	e := New(index.NewUnlocked(), identity, Exact)
	e.ProcessLine("")
	e.ProcessLine("   ")

	assert.Empty(t, e.Queries())
}

func TestEngine_DuplicateStemsCollapseWithinOneLine(t *testing.T) {
	idx := index.NewUnlocked()
	idx.Add("run", "a.txt", 1)

	e := New(idx, identity, Exact)
	e.ProcessLine("run run run")

	assert.Equal(t, []string{"run"}, e.Queries())
}

func TestEngine_ExactSearchRanking(t *testing.T) {
	e := New(buildSampleIndex(), identity, Exact)
	e.ProcessLine("cat")

	hits, ok := e.View("cat")
	require.True(t, ok)
	require.Len(t, hits, 2)
	assert.Equal(t, "short.txt", hits[0].Where)
	assert.Equal(t, "long.txt", hits[1].Where)
}

func TestEngine_PartialSearchMatchesPrefixedKeys(t *testing.T) {
	idx := index.NewUnlocked()
	idx.Add("run", "a.txt", 1)
	idx.Add("runner", "a.txt", 2)

	e := New(idx, identity, Partial)
	e.ProcessLine("run")

	hits, ok := e.View("run")
	require.True(t, ok)
	require.Len(t, hits, 1)
	assert.Equal(t, 2, hits[0].Count)
}

func TestEngine_ProcessFileParallelMatchesSerial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queries.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat\nfoo bar\nbar foo\ncat\n"), 0o644))

	serial := New(buildSampleIndex(), identity, Exact)
	require.NoError(t, serial.ProcessFile(path))

	parallelIdx := buildSampleIndex()
	parallelEngine := New(parallelIdx, identity, Exact)
	pool := workerpool.New(4)
	require.NoError(t, parallelEngine.ProcessFileParallel(path, pool))
	pool.Join()

	assert.ElementsMatch(t, serial.Queries(), parallelEngine.Queries())
}

func TestEngine_ViewReportsUnknownQueryAsNotOK(t *testing.T) {
	e := New(index.NewUnlocked(), identity, Exact)
	_, ok := e.View("never asked")
	assert.False(t, ok)
}
