package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"search-engine/internal/build"
	"search-engine/internal/build/s3build"
	"search-engine/internal/crawl"
	"search-engine/internal/emit"
	"search-engine/internal/index"
	"search-engine/internal/query"
	"search-engine/internal/stem"
	"search-engine/internal/workerpool"
	"search-engine/pkg/core"
)

const defaultPoolSize = 5

// RunCommand drives a single search-engine invocation end to end: it loads
// configuration, ingests whichever roots were requested into a shared
// index, runs any queries against it, and writes the requested JSON
// outputs. Ingest is best-effort per item; output is all-or-nothing per
// file, matching the error-handling policy documented for this engine.
func RunCommand(ctx context.Context, flags *cmdFlags) error {
	initLogger(flags)

	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	parallel := flags.threadsRequested || cfg.HTML != "" || cfg.S3 != ""

	idx := index.NewLocked()

	var pool *workerpool.Pool
	if parallel {
		pool = workerpool.New(parseThreads(cfg.Threads))
		defer pool.Join()
	}

	if cfg.Text != "" {
		if err := ingestText(ctx, cfg, idx, pool); err != nil {
			slog.Warn("search: text ingestion reported an error", "root", cfg.Text, "err", err)
		}
	}

	if cfg.S3 != "" {
		if err := ingestS3(ctx, cfg, idx, pool); err != nil {
			slog.Warn("search: S3 ingestion reported an error", "root", cfg.S3, "err", err)
		}
	}

	if cfg.HTML != "" {
		if err := ingestHTML(ctx, cfg, idx, pool); err != nil {
			slog.Warn("search: crawl reported an error", "seed", cfg.HTML, "err", err)
		}
	}

	mode := query.Exact
	if cfg.Partial {
		mode = query.Partial
	}

	engine := query.New(idx, stem.Stem, mode)

	if cfg.Query != "" {
		if err := runQueries(cfg, engine, pool); err != nil {
			slog.Warn("search: query processing reported an error", "path", cfg.Query, "err", err)
		}
	}

	return writeOutputs(flags, cfg, idx, engine)
}

// ingestText dispatches cfg.Text to the builder matching its root kind: a
// local file/directory walk or an S3 bucket/prefix listing. An http(s) root
// is not a valid -text value; it is reported and skipped rather than
// silently ignored.
func ingestText(ctx context.Context, cfg *appConfig, idx index.Index, pool *workerpool.Pool) error {
	switch core.DetectRootKind(cfg.Text) {
	case core.RootKindS3:
		s3cfg := *cfg
		s3cfg.S3 = cfg.Text

		return ingestS3(ctx, &s3cfg, idx, pool)
	case core.RootKindHTTP:
		return fmt.Errorf("search: -text does not accept an http(s) root, use -html: %s", cfg.Text)
	default:
		b := build.New(idx, stem.Stem)
		if pool != nil {
			return b.BuildParallel(cfg.Text, pool)
		}

		return b.BuildSerial(cfg.Text)
	}
}

// ingestS3 lists and ingests cfg.S3. -s3 implies parallel mode, so pool is
// always non-nil here, but a nil pool is created as a fallback if somehow
// reached with parallel mode off, rather than panicking on a nil pointer.
func ingestS3(ctx context.Context, cfg *appConfig, idx index.Index, pool *workerpool.Pool) error {
	if pool == nil {
		pool = workerpool.New(parseThreads(cfg.Threads))
		defer pool.Join()
	}

	bucket, prefix := splitS3Root(cfg.S3)

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
	}

	if cfg.AWSProfile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	b := s3build.New(client, idx, stem.Stem)

	if pool != nil {
		return b.BuildParallel(ctx, bucket, prefix, pool)
	}

	return b.BuildSerial(ctx, bucket, prefix)
}

// ingestHTML crawls cfg.HTML. -html implies parallel mode, so pool is
// always non-nil here, but a nil pool is created as a fallback if somehow
// reached with parallel mode off, rather than panicking on a nil pointer.
func ingestHTML(ctx context.Context, cfg *appConfig, idx index.Index, pool *workerpool.Pool) error {
	if pool == nil {
		pool = workerpool.New(parseThreads(cfg.Threads))
		defer pool.Join()
	}

	fetcher := crawl.HTTPFetcher(nil)
	crawler := crawl.New(idx, stem.Stem, fetcher, pool, cfg.Crawl)

	return crawler.Crawl(ctx, cfg.HTML)
}

func runQueries(cfg *appConfig, engine *query.Engine, pool *workerpool.Pool) error {
	if pool != nil {
		return engine.ProcessFileParallel(cfg.Query, pool)
	}

	return engine.ProcessFile(cfg.Query)
}

// writeOutputs emits whichever of the index/counts/results JSON files were
// explicitly requested on the command line. Each file is written
// independently and all requested writes are attempted even if one fails;
// the first error encountered is returned.
func writeOutputs(flags *cmdFlags, cfg *appConfig, idx index.Index, engine *query.Engine) error {
	var firstErr error

	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if flags.indexRequested {
		record(emit.WriteIndex(cfg.IndexPath, idx))
	}

	if flags.countsRequested {
		record(emit.WriteCounts(cfg.CountsPath, wordCounts(idx)))
	}

	if flags.resultsRequested {
		record(emit.WriteResults(cfg.ResultsPath, engine.Results()))
	}

	return firstErr
}

func wordCounts(idx index.Index) map[string]int {
	out := make(map[string]int)
	for _, loc := range idx.AllLocations() {
		out[loc] = idx.WordCount(loc)
	}

	return out
}

// parseThreads parses the -threads flag's string value. A non-positive or
// non-numeric value silently falls back to the default pool size rather
// than failing flag parsing.
func parseThreads(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return defaultPoolSize
	}

	return n
}

// splitS3Root splits a "bucket/prefix" (optionally "s3://bucket/prefix")
// root string into its bucket and prefix parts.
func splitS3Root(root string) (bucket, prefix string) {
	root = strings.TrimPrefix(root, "s3://")
	root = strings.TrimPrefix(root, "S3://")

	parts := strings.SplitN(root, "/", 2)
	bucket = parts[0]

	if len(parts) > 1 {
		prefix = parts[1]
	}

	return bucket, prefix
}
