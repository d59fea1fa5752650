package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectRootKind(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		expected RootKind
	}{
		{name: "plain directory path", root: "./docs", expected: RootKindFile},
		{name: "absolute file path", root: "/var/data/a.txt", expected: RootKindFile},
		{name: "http seed", root: "http://example.com/", expected: RootKindHTTP},
		{name: "https seed", root: "https://example.com/docs", expected: RootKindHTTP},
		{name: "uppercase scheme", root: "HTTPS://example.com/", expected: RootKindHTTP},
		{name: "s3 root", root: "s3://my-bucket/prefix", expected: RootKindS3},
		{name: "uppercase s3 scheme", root: "S3://my-bucket/prefix", expected: RootKindS3},
		{name: "windows-looking path is still a file", root: `C:\docs\a.txt`, expected: RootKindFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectRootKind(tt.root))
		})
	}
}
