// Command search-engine builds and queries a multithreaded inverted-index
// search engine over local files, S3 objects, and crawled web pages.
package main

import (
	"context"
	"fmt"
	"os"

	"search-engine/pkg/cmd"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	root := cmd.InitCommand(cmd.BuildInfo{
		Version: version,
		AppName: "search-engine",
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
