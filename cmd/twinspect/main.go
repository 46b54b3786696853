// Package main provides the twinspect CLI entry point.
package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iscc/twinspect/internal/config"
	"github.com/iscc/twinspect/internal/registry"
	"github.com/iscc/twinspect/internal/task"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "twinspect",
	Short: "Benchmark near-duplicate detection with compact binary codes",
	Long: `twinspect evaluates similarity-preserving compact codes against
clustered datasets of near-duplicate media files.

Benchmarks are declared in a YAML configuration document. Results are
written as JSON artifacts next to the dataset folders. All commands
output JSON by default for easy integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// A .env file in the working directory supplies TWINSPECT_* settings.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustOptions resolves environment options, exits on error.
func mustOptions() *config.Options {
	opts, err := config.OptionsFromEnv()
	if err != nil {
		exitWithError(ExitConfigError, "resolving options: %v", err)
	}
	return opts
}

// mustLoadConfig loads and validates the configuration document, exits on error.
func mustLoadConfig(opts *config.Options) *config.Configuration {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		exitWithError(ExitConfigError, "loading configuration: %v", err)
	}
	return cfg
}

// mustOpenCache opens the task cache database in the data root, exits on error.
// The caller is responsible for calling Close() on the returned cache.
func mustOpenCache(opts *config.Options) *task.Cache {
	if err := opts.EnsureRoot(); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	cache, err := task.OpenCache(filepath.Join(opts.RootFolder, "twinspect.db"))
	if err != nil {
		exitWithError(ExitError, "opening task cache: %v", err)
	}
	return cache
}

// builtinRegistry returns the function registry with the implementations
// shipped in this binary. Algorithm packages extend it in their own builds.
func builtinRegistry() *registry.Registry {
	reg := registry.New()
	registerBuiltins(reg)
	return reg
}
