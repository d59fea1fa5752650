package core

import "strings"

// RootKind identifies what an ingestion root string refers to: a local
// file or directory, a web seed to crawl, or an S3 bucket/prefix.
type RootKind string

const (
	// RootKindFile represents a local filesystem path (file or directory).
	RootKindFile RootKind = "file"
	// RootKindHTTP represents an http(s) seed URI to crawl.
	RootKindHTTP RootKind = "http"
	// RootKindS3 represents an s3://bucket/prefix root.
	RootKindS3 RootKind = "s3"
)

// DetectRootKind classifies an ingestion root by its scheme prefix. It is a
// fast, pure pre-filter used by the config/manifest layer to dispatch a root
// to the matching builder; it never touches the filesystem or network.
func DetectRootKind(root string) RootKind {
	lower := strings.ToLower(root)

	switch {
	case strings.HasPrefix(lower, "s3://"):
		return RootKindS3
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return RootKindHTTP
	default:
		return RootKindFile
	}
}
