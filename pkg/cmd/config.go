package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// appConfig is the viper-bound configuration for a search run: every flag of
// the search subcommand has an environment-variable and config-file
// equivalent for its value through this struct. Whether an output file is
// written, and whether -threads turns on parallel mode, is still decided by
// the flags given on the command line.
type appConfig struct {
	Text        string `mapstructure:"text"`
	HTML        string `mapstructure:"html"`
	Crawl       int    `mapstructure:"crawl"`
	Query       string `mapstructure:"query"`
	Partial     bool   `mapstructure:"partial"`
	Threads     string `mapstructure:"threads"`
	IndexPath   string `mapstructure:"index_path"`
	CountsPath  string `mapstructure:"counts_path"`
	ResultsPath string `mapstructure:"results_path"`
	S3          string `mapstructure:"s3"`
	AWSRegion   string `mapstructure:"aws_region"`
	AWSProfile  string `mapstructure:"aws_profile"`
}

// loadConfig loads the application configuration from flags.ConfigPath (if
// set) and environment variables, falling back to the flag-parsed defaults
// already present in flags for anything the config file and environment
// leave unset.
func loadConfig(flags *cmdFlags) (*appConfig, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())

	v.SetDefault("text", flags.Text)
	v.SetDefault("html", flags.HTML)
	v.SetDefault("crawl", flags.Crawl)
	v.SetDefault("query", flags.Query)
	v.SetDefault("partial", flags.Partial)
	v.SetDefault("threads", flags.Threads)
	v.SetDefault("index_path", flags.IndexPath)
	v.SetDefault("counts_path", flags.CountsPath)
	v.SetDefault("results_path", flags.ResultsPath)
	v.SetDefault("s3", flags.S3)
	v.SetDefault("aws_region", flags.AWSRegion)
	v.SetDefault("aws_profile", flags.AWSProfile)

	if flags.ConfigPath != "" {
		v.SetConfigFile(flags.ConfigPath)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg appConfig

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	slog.Debug("config loaded", "config", cfg)

	return &cfg, nil
}
