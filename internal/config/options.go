package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Environment variables recognized by Options.
const (
	EnvRoot    = "TWINSPECT_ROOT"
	EnvConfig  = "TWINSPECT_CONFIG"
	EnvWorkers = "TWINSPECT_WORKERS"
)

// DefaultConfigFile is the configuration document looked up in the working
// directory when TWINSPECT_CONFIG is unset.
const DefaultConfigFile = "twinspect.yml"

// Options are framework environment settings, distinct from the benchmark
// configuration document. They come from environment variables (a .env file
// is honored when present, loaded by the CLI before option resolution).
type Options struct {
	// RootFolder is the root directory for all evaluation data. Each
	// installed dataset lives in RootFolder/<dataset label>.
	RootFolder string
	// ConfigFile is the path to the benchmark configuration document.
	ConfigFile string
	// Workers bounds task execution concurrency. Defaults to GOMAXPROCS.
	Workers int
}

// OptionsFromEnv resolves options from the environment with defaults.
func OptionsFromEnv() (*Options, error) {
	opts := &Options{
		ConfigFile: DefaultConfigFile,
		Workers:    runtime.GOMAXPROCS(0),
	}

	if root := os.Getenv(EnvRoot); root != "" {
		opts.RootFolder = root
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving data root: %w", err)
		}
		opts.RootFolder = filepath.Join(home, "twinspect")
	}

	if cfg := os.Getenv(EnvConfig); cfg != "" {
		opts.ConfigFile = cfg
	}

	if w := os.Getenv(EnvWorkers); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil || n < 1 {
			return nil, &Error{Msg: fmt.Sprintf("invalid %s value %q", EnvWorkers, w)}
		}
		opts.Workers = n
	}

	return opts, nil
}

// DataFolder returns the installed data folder path for a dataset label.
func (o *Options) DataFolder(datasetLabel string) string {
	return filepath.Join(o.RootFolder, datasetLabel)
}

// EnsureRoot creates the evaluation data root if it does not exist.
func (o *Options) EnsureRoot() error {
	if err := os.MkdirAll(o.RootFolder, 0755); err != nil {
		return fmt.Errorf("creating data root: %w", err)
	}
	return nil
}
