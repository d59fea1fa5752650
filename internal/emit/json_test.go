package emit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-engine/internal/index"
)

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

// S1 - empty corpus.
func TestScenario_EmptyIndexJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, WriteIndex(path, index.NewUnlocked()))
	assert.Equal(t, "{\n}", readFile(t, path))
}

func TestWriteCounts_EmptyMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counts.json")

	require.NoError(t, WriteCounts(path, map[string]int{}))
	assert.Equal(t, "{\n}", readFile(t, path))
}

func TestWriteResults_EmptyMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")

	require.NoError(t, WriteResults(path, map[string][]index.SearchResult{}))
	assert.Equal(t, "{\n}", readFile(t, path))
}

// S2 - minimal doc.
func TestWriteIndex_MinimalDoc(t *testing.T) {
	idx := index.NewUnlocked()
	idx.AddAll([]string{"hello", "hello", "world"}, "a.txt", 1)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, WriteIndex(path, idx))

	want := "{\n" +
		"  \"hello\": {\n" +
		"    \"a.txt\": [1, 2]\n" +
		"  },\n" +
		"  \"world\": {\n" +
		"    \"a.txt\": [3]\n" +
		"  }\n" +
		"}"

	assert.Equal(t, want, readFile(t, path))
}

func TestWriteCounts_SortsLocationsAscending(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counts.json")

	require.NoError(t, WriteCounts(path, map[string]int{"b.txt": 2, "a.txt": 5}))

	want := "{\n  \"a.txt\": 5,\n  \"b.txt\": 2\n}"
	assert.Equal(t, want, readFile(t, path))
}

// S3 - exact vs partial score formatting.
func TestWriteResults_ScoreHasEightFractionalDigits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")

	results := map[string][]index.SearchResult{
		"run": {{Where: "a.txt", Count: 2, Score: 2.0 / 3.0}},
	}

	require.NoError(t, WriteResults(path, results))

	want := "{\n" +
		"  \"run\": [\n" +
		"    {\"count\": 2, \"score\": 0.66666667, \"where\": \"a.txt\"}\n" +
		"  ]\n" +
		"}"

	assert.Equal(t, want, readFile(t, path))
}

func TestWriteResults_QueriesSortedAscending(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")

	results := map[string][]index.SearchResult{
		"zeta":  {{Where: "a.txt", Count: 1, Score: 1}},
		"alpha": {{Where: "b.txt", Count: 1, Score: 1}},
	}

	require.NoError(t, WriteResults(path, results))

	content := readFile(t, path)
	alphaIdx := indexOf(content, "\"alpha\"")
	zetaIdx := indexOf(content, "\"zeta\"")

	assert.Less(t, alphaIdx, zetaIdx)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}

	return -1
}
