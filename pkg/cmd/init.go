package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BuildInfo holds the build metadata injected at compile time.
type BuildInfo struct {
	Version string
	AppName string
}

const (
	defaultIndexPath   = "index.json"
	defaultCountsPath  = "counts.json"
	defaultResultsPath = "results.json"
	defaultThreads     = "5"
)

type cmdFlags struct {
	version string
	appName string

	ConfigPath string `mapstructure:"config"`
	LogLevel   string `mapstructure:"log_level"`
	LogJSON    bool   `mapstructure:"log_json"`

	Text    string `mapstructure:"text"`
	HTML    string `mapstructure:"html"`
	Crawl   int    `mapstructure:"crawl"`
	Query   string `mapstructure:"query"`
	Partial bool   `mapstructure:"partial"`
	Threads string `mapstructure:"threads"`

	IndexPath   string `mapstructure:"index_path"`
	CountsPath  string `mapstructure:"counts_path"`
	ResultsPath string `mapstructure:"results_path"`

	indexRequested   bool
	countsRequested  bool
	resultsRequested bool
	threadsRequested bool

	S3         string `mapstructure:"s3"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// InitCommand initializes the root command of the CLI application with its
// subcommands and flags.
func InitCommand(build BuildInfo) cobra.Command {
	flags := cmdFlags{
		version: build.Version,
		appName: build.AppName,
	}

	cmd := cobra.Command{
		Use:   flags.appName,
		Short: "Multithreaded inverted-index search engine",
		Long:  "A search engine that indexes local files, S3 objects, and crawled web pages, then ranks documents against multi-term queries.",
	}

	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&flags.LogJSON, "log-json", false, "log in JSON format, otherwise text")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to an optional YAML configuration file")

	for _, name := range []string{"log_level", "log_json"} {
		if err := viper.BindEnv(name); err != nil {
			slog.Error("failed to bind env var", "name", name, "error", err)
		}
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(&flags); err != nil {
		slog.Error("failed to unmarshal env vars", "error", err)
	}

	searchCmd := newSearchCmd(&flags)

	cmd.AddCommand(searchCmd)

	return cmd
}

func newSearchCmd(flags *cmdFlags) *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Build and query the inverted index",
		Long:  "Ingests files, S3 objects, and/or a crawled web seed into the shared index, runs any queries, and writes the requested JSON outputs.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.indexRequested = cmd.Flags().Changed("index")
			flags.countsRequested = cmd.Flags().Changed("counts")
			flags.resultsRequested = cmd.Flags().Changed("results")
			flags.threadsRequested = cmd.Flags().Changed("threads")

			return RunCommand(cmd.Context(), flags)
		},
	}

	fs := searchCmd.Flags()

	fs.StringVar(&flags.Text, "text", "", "ingest files/directory at this path")
	fs.StringVar(&flags.HTML, "html", "", "crawl starting from this seed URL")
	fs.IntVar(&flags.Crawl, "crawl", 1, "page cap for -html (clamped to >= 1)")
	fs.StringVar(&flags.Query, "query", "", "run queries from this file")
	fs.BoolVar(&flags.Partial, "partial", false, "use partial (prefix) search instead of exact search")

	// -threads is a string, not an int, because a non-numeric or
	// non-positive value must silently fall back to the default rather than
	// fail flag parsing the way a typed IntVar would.
	fs.StringVar(&flags.Threads, "threads", defaultThreads, "worker pool size; non-positive or non-numeric falls back to 5")

	fs.StringVar(&flags.IndexPath, "index", defaultIndexPath, "write inverted index JSON (optional path)")
	fs.Lookup("index").NoOptDefVal = defaultIndexPath

	fs.StringVar(&flags.CountsPath, "counts", defaultCountsPath, "write word counts JSON (optional path)")
	fs.Lookup("counts").NoOptDefVal = defaultCountsPath

	fs.StringVar(&flags.ResultsPath, "results", defaultResultsPath, "write search-results JSON (optional path)")
	fs.Lookup("results").NoOptDefVal = defaultResultsPath

	fs.StringVar(&flags.S3, "s3", "", "ingest an S3 root in the form bucket/prefix")
	fs.StringVar(&flags.AWSRegion, "aws-region", "", "AWS region for the S3 ingestion root")
	fs.StringVar(&flags.AWSProfile, "aws-profile", "", "AWS shared-config profile for the S3 ingestion root")

	return searchCmd
}
