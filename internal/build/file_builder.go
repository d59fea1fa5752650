// Package build implements the index builders that populate a shared index
// from local files: a single-threaded walker and a fan-out/fan-in parallel
// one that assembles a private per-file index before a single merge.
package build

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"search-engine/internal/index"
	"search-engine/internal/normalize"
	"search-engine/internal/workerpool"
)

// DefaultInclude is the include glob applied when a FileBuilder is not given
// one explicitly: every .txt and .text file at any depth.
const DefaultInclude = "**/*.{txt,text}"

// FileBuilder walks a local filesystem root and populates idx with tokens
// from every matching text file.
type FileBuilder struct {
	Index   index.Index
	Stem    normalize.Stemmer
	Include string
}

// New returns a FileBuilder that indexes into idx using stem for tokenization.
func New(idx index.Index, stem normalize.Stemmer) *FileBuilder {
	return &FileBuilder{Index: idx, Stem: stem, Include: DefaultInclude}
}

// BuildSerial walks root depth-first and indexes each matching file directly
// against the shared index, one add per token.
func (b *FileBuilder) BuildSerial(root string) error {
	walkFollowingSymlinks(root, func(path string, isDir bool) {
		if isDir || !b.matches(root, path) {
			return
		}

		b.indexFileSerial(path)
	})

	return nil
}

// BuildParallel walks root on the caller's task but submits one task per
// matching file to pool. Each task builds a private index for its file and
// merges it into the shared index with a single write acquisition. It
// returns after pool.Barrier() confirms every submitted task, including any
// it transitively spawned, has completed.
func (b *FileBuilder) BuildParallel(root string, pool *workerpool.Pool) error {
	walkFollowingSymlinks(root, func(path string, isDir bool) {
		if isDir || !b.matches(root, path) {
			return
		}

		pool.Submit(func() { b.indexFilePrivate(path) })
	})

	pool.Barrier()

	return nil
}

func (b *FileBuilder) matches(root, path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if !strings.HasSuffix(name, ".txt") && !strings.HasSuffix(name, ".text") {
		return false
	}

	if b.Include == "" {
		return true
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	matched, err := doublestar.Match(b.Include, filepath.ToSlash(rel))
	if err != nil {
		slog.Warn("build: invalid include pattern", "pattern", b.Include, "err", err)
		return true
	}

	return matched
}

func (b *FileBuilder) readTokens(path string) ([]string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("build: failed to read file", "path", path, "err", err)
		return nil, false
	}

	if !utf8.Valid(data) {
		slog.Warn("build: file is not valid UTF-8", "path", path)
		return nil, false
	}

	return normalize.Tokens(string(data), b.Stem), true
}

func (b *FileBuilder) indexFileSerial(path string) {
	tokens, ok := b.readTokens(path)
	if !ok {
		return
	}

	b.Index.AddAll(tokens, path, 1)
}

func (b *FileBuilder) indexFilePrivate(path string) {
	tokens, ok := b.readTokens(path)
	if !ok {
		return
	}

	priv := index.NewUnlocked()
	priv.AddAll(tokens, path, 1)
	b.Index.Merge(priv)
}
