package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const validDoc = `
twinspect: "1.0"
algorithms:
  - name: Audio Code
    label: ac64
    mode: audio
    function: iscc:audio_code_64
datasets:
  - name: FMA Small
    label: fma_small
    url: https://example.org/fma_small.zip
    mode: audio
    installer: twinspect:install_audio
    samples: 1000
    clusters: 100
    seed: 42
transformations:
  - name: Compress Medium
    label: cmpmd
    mode: audio
    function: twinspect:compress
    params: [128]
  - name: Time Stretch
    label: stretch
    mode: audio
    function: twinspect:stretch
metrics:
  - name: Effectiveness
    label: eff
    function: twinspect:effectiveness
  - name: Speed
    label: speed
    function: twinspect:speed
benchmarks:
  - algorithm_label: ac64
    dataset_label: fma_small
    metric_labels: [eff, speed]
    active: true
  - algorithm_label: ac64
    dataset_label: fma_small
    metric_labels: [eff]
    active: false
`

func TestParseValid(t *testing.T) {
	cfg, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.TwinSpect != "1.0" {
		t.Errorf("expected version 1.0, got %q", cfg.TwinSpect)
	}

	algo, ok := cfg.Algorithm("ac64")
	if !ok {
		t.Fatal("algorithm ac64 not found")
	}
	if algo.Mode != ModeAudio {
		t.Errorf("expected audio mode, got %q", algo.Mode)
	}

	ds, ok := cfg.Dataset("fma_small")
	if !ok {
		t.Fatal("dataset fma_small not found")
	}
	if ds.Clusters != 100 {
		t.Errorf("expected 100 clusters, got %d", ds.Clusters)
	}

	if _, ok := cfg.Metric("speed"); !ok {
		t.Error("metric speed not found")
	}
	if _, ok := cfg.Transformation("cmpmd"); !ok {
		t.Error("transformation cmpmd not found")
	}
}

func TestParseMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing twinspect", `
datasets:
  - {name: D, url: "https://x", mode: image}
transformations:
  - {name: T, label: t1, mode: image, function: "f:t"}
`},
		{"missing datasets", `
twinspect: "1.0"
transformations:
  - {name: T, label: t1, mode: image, function: "f:t"}
`},
		{"missing transformations", `
twinspect: "1.0"
datasets:
  - {name: D, url: "https://x", mode: image}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestParseEntityValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"algorithm missing function", `
twinspect: "1.0"
algorithms:
  - {name: A, label: a1, mode: audio}
datasets:
  - {name: D, url: "https://x", mode: audio}
transformations:
  - {name: T, label: t1, mode: audio, function: "f:t"}
`},
		{"invalid mode", `
twinspect: "1.0"
datasets:
  - {name: D, url: "https://x", mode: smell}
transformations:
  - {name: T, label: t1, mode: image, function: "f:t"}
`},
		{"duplicate transformation label", `
twinspect: "1.0"
datasets:
  - {name: D, url: "https://x", mode: image}
transformations:
  - {name: T, label: t1, mode: image, function: "f:t"}
  - {name: U, label: t1, mode: image, function: "f:u"}
`},
		{"metric missing name", `
twinspect: "1.0"
datasets:
  - {name: D, url: "https://x", mode: image}
transformations:
  - {name: T, label: t1, mode: image, function: "f:t"}
metrics:
  - {label: m1, function: "f:m"}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestParseUnresolvedBenchmarkReferences(t *testing.T) {
	base := `
twinspect: "1.0"
algorithms:
  - {name: A, label: a1, mode: audio, function: "f:a"}
datasets:
  - {name: D, label: d1, url: "https://x", mode: audio}
transformations:
  - {name: T, label: t1, mode: audio, function: "f:t"}
metrics:
  - {name: M, label: m1, function: "f:m"}
benchmarks:
  - {algorithm_label: %s, dataset_label: %s, metric_labels: [%s], active: true}
`

	tests := []struct {
		name             string
		algo, ds, metric string
	}{
		{"unknown algorithm", "nope", "d1", "m1"},
		{"unknown dataset", "a1", "nope", "m1"},
		{"unknown metric", "a1", "d1", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := []byte(fmt.Sprintf(base, tt.algo, tt.ds, tt.metric))
			if _, err := Parse(doc); !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestActiveBenchmarks(t *testing.T) {
	cfg, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	active := cfg.ActiveBenchmarks()
	if len(active) != 1 {
		t.Fatalf("expected 1 active benchmark, got %d", len(active))
	}
	if !active[0].Active {
		t.Error("active benchmark has Active=false")
	}
}

func TestDatasetDefaultLabel(t *testing.T) {
	doc := `
twinspect: "1.0"
datasets:
  - {name: "FMA Small", url: "https://x", mode: audio}
transformations:
  - {name: T, label: t1, mode: audio, function: "f:t"}
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := cfg.Dataset("fma_small"); !ok {
		t.Error("expected default label fma_small derived from name")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "twinspect.yml")
	if err := os.WriteFile(path, []byte(validDoc), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.TransformationLabels()) != 2 {
		t.Errorf("expected 2 transformation labels, got %d", len(cfg.TransformationLabels()))
	}
}
