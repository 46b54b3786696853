package config

import (
	"path/filepath"
	"testing"
)

func TestOptionsFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv(EnvRoot, "")
		t.Setenv(EnvConfig, "")
		t.Setenv(EnvWorkers, "")

		opts, err := OptionsFromEnv()
		if err != nil {
			t.Fatalf("OptionsFromEnv failed: %v", err)
		}
		if opts.ConfigFile != DefaultConfigFile {
			t.Errorf("expected default config file, got %q", opts.ConfigFile)
		}
		if opts.Workers < 1 {
			t.Errorf("expected at least one worker, got %d", opts.Workers)
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvRoot, dir)
		t.Setenv(EnvConfig, filepath.Join(dir, "bench.yml"))
		t.Setenv(EnvWorkers, "3")

		opts, err := OptionsFromEnv()
		if err != nil {
			t.Fatalf("OptionsFromEnv failed: %v", err)
		}
		if opts.RootFolder != dir {
			t.Errorf("expected root %q, got %q", dir, opts.RootFolder)
		}
		if opts.Workers != 3 {
			t.Errorf("expected 3 workers, got %d", opts.Workers)
		}
		if got := opts.DataFolder("fma_small"); got != filepath.Join(dir, "fma_small") {
			t.Errorf("unexpected data folder %q", got)
		}
	})

	t.Run("invalid workers", func(t *testing.T) {
		t.Setenv(EnvWorkers, "zero")
		if _, err := OptionsFromEnv(); err == nil {
			t.Error("expected error for non-numeric worker count")
		}
	})
}
