// Package s3build is an index builder whose ingestion root is an S3
// bucket/prefix instead of a local directory. It shares the file builder's
// private-index-then-merge task shape; only the byte-fetching step differs.
package s3build

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"search-engine/internal/index"
	"search-engine/internal/normalize"
	"search-engine/internal/workerpool"
)

// API is the subset of the S3 client the builder depends on, so tests can
// substitute a client pointed at an in-memory fake backend.
type API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Builder populates an index from objects under an S3 bucket/prefix.
type Builder struct {
	Client API
	Index  index.Index
	Stem   normalize.Stemmer
}

// New returns a Builder that reads objects through client and indexes into idx.
func New(client API, idx index.Index, stem normalize.Stemmer) *Builder {
	return &Builder{Client: client, Index: idx, Stem: stem}
}

// BuildParallel lists every object under bucket/prefix, submits one task per
// matching key to pool, and blocks on pool.Barrier() before returning.
func (b *Builder) BuildParallel(ctx context.Context, bucket, prefix string, pool *workerpool.Pool) error {
	paginator := s3.NewListObjectsV2Paginator(b.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			slog.Warn("s3build: failed to list objects", "bucket", bucket, "prefix", prefix, "err", err)
			break
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !isIndexable(key) {
				continue
			}

			pool.Submit(func() { b.indexObject(ctx, bucket, key) })
		}
	}

	pool.Barrier()

	return nil
}

// BuildSerial is the single-threaded counterpart to BuildParallel, indexing
// directly against the shared index as each object is fetched.
func (b *Builder) BuildSerial(ctx context.Context, bucket, prefix string) error {
	paginator := s3.NewListObjectsV2Paginator(b.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			slog.Warn("s3build: failed to list objects", "bucket", bucket, "prefix", prefix, "err", err)
			break
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !isIndexable(key) {
				continue
			}

			tokens, location, ok := b.fetchTokens(ctx, bucket, key)
			if !ok {
				continue
			}

			b.Index.AddAll(tokens, location, 1)
		}
	}

	return nil
}

func (b *Builder) indexObject(ctx context.Context, bucket, key string) {
	tokens, location, ok := b.fetchTokens(ctx, bucket, key)
	if !ok {
		return
	}

	priv := index.NewUnlocked()
	priv.AddAll(tokens, location, 1)
	b.Index.Merge(priv)
}

func (b *Builder) fetchTokens(ctx context.Context, bucket, key string) ([]string, string, bool) {
	location := "s3://" + bucket + "/" + key

	out, err := b.Client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		logGetObjectError(location, err)
		return nil, "", false
	}

	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		slog.Warn("s3build: failed to read object body", "location", location, "err", err)
		return nil, "", false
	}

	if !utf8.Valid(data) {
		slog.Warn("s3build: object is not valid UTF-8", "location", location)
		return nil, "", false
	}

	return normalize.Tokens(string(data), b.Stem), location, true
}

// logGetObjectError unwraps a smithy API error, when present, to log the
// service-assigned error code (e.g. "NoSuchKey") alongside the message,
// rather than just the wrapped Go error string AWS SDK v2 clients return.
func logGetObjectError(location string, err error) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		slog.Warn("s3build: failed to get object", "location", location, "code", apiErr.ErrorCode(), "message", apiErr.ErrorMessage())
		return
	}

	slog.Warn("s3build: failed to get object", "location", location, "err", err)
}

func isIndexable(key string) bool {
	lower := strings.ToLower(key)
	return strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".text")
}
