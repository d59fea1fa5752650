package build

import (
	"log/slog"
	"os"
	"path/filepath"
)

// walkFollowingSymlinks visits every entry under root depth-first in
// filesystem order, following directory symlinks (cycles are the caller's
// problem, not this walker's). fn is called once per entry with its path
// (the parent directory joined with the entry name; symlinks are not
// resolved) and whether it is a directory.
func walkFollowingSymlinks(root string, fn func(path string, isDir bool)) {
	info, err := os.Stat(root)
	if err != nil {
		slog.Warn("build: cannot stat root", "path", root, "err", err)
		return
	}

	if !info.IsDir() {
		fn(root, false)
		return
	}

	walkDir(root, fn)
}

func walkDir(dir string, fn func(path string, isDir bool)) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("build: cannot read directory", "path", dir, "err", err)
		return
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())

		info, err := os.Stat(path)
		if err != nil {
			slog.Warn("build: cannot stat entry", "path", path, "err", err)
			continue
		}

		if info.IsDir() {
			fn(path, true)
			walkDir(path, fn)

			continue
		}

		fn(path, false)
	}
}
