// Package config loads and validates benchmark configuration documents.
//
// A configuration document is a versioned YAML file declaring the algorithms,
// datasets, transformations, metrics and benchmarks of an evaluation run.
// Labels are unique within each collection, and every label referenced by a
// benchmark must resolve against the loaded collections. Validation failures
// are fatal and surface before any work starts.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration is the root aggregate of a benchmark run. It owns the entity
// collections for the lifetime of the run; derived artifacts (DatasetInfo,
// task results) are never authoritative over it.
type Configuration struct {
	// TwinSpect is the configuration file format version.
	TwinSpect       string           `yaml:"twinspect" json:"twinspect"`
	Algorithms      []Algorithm      `yaml:"algorithms,omitempty" json:"algorithms,omitempty"`
	Datasets        []Dataset        `yaml:"datasets" json:"datasets"`
	Transformations []Transformation `yaml:"transformations" json:"transformations"`
	Metrics         []Metric         `yaml:"metrics,omitempty" json:"metrics,omitempty"`
	Benchmarks      []Benchmark      `yaml:"benchmarks,omitempty" json:"benchmarks,omitempty"`

	algorithms      map[string]*Algorithm
	datasets        map[string]*Dataset
	transformations map[string]*Transformation
	metrics         map[string]*Metric
}

// Load reads and validates a configuration document from path.
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	return Parse(data)
}

// Parse validates a configuration document from raw YAML bytes.
func Parse(data []byte) (*Configuration, error) {
	var cfg Configuration
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &Error{Msg: fmt.Sprintf("parsing configuration: %v", err)}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks required fields, label uniqueness and referential integrity,
// and builds the label-keyed lookup maps.
func (c *Configuration) validate() error {
	if c.TwinSpect == "" {
		return &Error{Msg: "missing required field \"twinspect\""}
	}
	if len(c.Datasets) == 0 {
		return &Error{Msg: "missing required field \"datasets\""}
	}
	if len(c.Transformations) == 0 {
		return &Error{Msg: "missing required field \"transformations\""}
	}

	c.algorithms = make(map[string]*Algorithm, len(c.Algorithms))
	for i := range c.Algorithms {
		a := &c.Algorithms[i]
		if err := a.validate(); err != nil {
			return err
		}
		if _, dup := c.algorithms[a.Label]; dup {
			return duplicateLabel("algorithm", a.Label)
		}
		c.algorithms[a.Label] = a
	}

	c.datasets = make(map[string]*Dataset, len(c.Datasets))
	for i := range c.Datasets {
		d := &c.Datasets[i]
		if err := d.validate(); err != nil {
			return err
		}
		// Default label derives from the dataset name.
		if d.Label == "" {
			d.Label = d.effectiveLabel()
		}
		if _, dup := c.datasets[d.Label]; dup {
			return duplicateLabel("dataset", d.Label)
		}
		c.datasets[d.Label] = d
	}

	c.transformations = make(map[string]*Transformation, len(c.Transformations))
	for i := range c.Transformations {
		t := &c.Transformations[i]
		if err := t.validate(); err != nil {
			return err
		}
		if _, dup := c.transformations[t.Label]; dup {
			return duplicateLabel("transformation", t.Label)
		}
		c.transformations[t.Label] = t
	}

	c.metrics = make(map[string]*Metric, len(c.Metrics))
	for i := range c.Metrics {
		m := &c.Metrics[i]
		if err := m.validate(); err != nil {
			return err
		}
		if _, dup := c.metrics[m.Label]; dup {
			return duplicateLabel("metric", m.Label)
		}
		c.metrics[m.Label] = m
	}

	for i := range c.Benchmarks {
		b := &c.Benchmarks[i]
		if err := b.validate(); err != nil {
			return err
		}
		if _, ok := c.algorithms[b.AlgorithmLabel]; !ok {
			return unknownLabel("benchmark", "algorithm", b.AlgorithmLabel)
		}
		if _, ok := c.datasets[b.DatasetLabel]; !ok {
			return unknownLabel("benchmark", "dataset", b.DatasetLabel)
		}
		for _, ml := range b.MetricLabels {
			if _, ok := c.metrics[ml]; !ok {
				return unknownLabel("benchmark", "metric", ml)
			}
		}
	}

	return nil
}

// Algorithm returns the algorithm with the given label.
func (c *Configuration) Algorithm(label string) (*Algorithm, bool) {
	a, ok := c.algorithms[label]
	return a, ok
}

// Dataset returns the dataset with the given label.
func (c *Configuration) Dataset(label string) (*Dataset, bool) {
	d, ok := c.datasets[label]
	return d, ok
}

// Transformation returns the transformation with the given label.
func (c *Configuration) Transformation(label string) (*Transformation, bool) {
	t, ok := c.transformations[label]
	return t, ok
}

// Metric returns the metric with the given label.
func (c *Configuration) Metric(label string) (*Metric, bool) {
	m, ok := c.metrics[label]
	return m, ok
}

// TransformationLabels returns the labels of all declared transformations.
// The dataset analyzer matches filename suffixes against this set.
func (c *Configuration) TransformationLabels() []string {
	labels := make([]string, 0, len(c.Transformations))
	for i := range c.Transformations {
		labels = append(labels, c.Transformations[i].Label)
	}
	return labels
}

// TransformationsForMode returns all transformations declared for a mode.
func (c *Configuration) TransformationsForMode(mode Mode) []*Transformation {
	var out []*Transformation
	for i := range c.Transformations {
		if c.Transformations[i].Mode == mode {
			out = append(out, &c.Transformations[i])
		}
	}
	return out
}

// ActiveBenchmarks returns the benchmarks selected for a full run.
func (c *Configuration) ActiveBenchmarks() []*Benchmark {
	var out []*Benchmark
	for i := range c.Benchmarks {
		if c.Benchmarks[i].Active {
			out = append(out, &c.Benchmarks[i])
		}
	}
	return out
}

func duplicateLabel(kind, label string) error {
	return &Error{Msg: fmt.Sprintf("duplicate %s label %q", kind, label)}
}

func unknownLabel(referrer, kind, label string) error {
	return &Error{Msg: fmt.Sprintf("%s references unknown %s label %q", referrer, kind, label)}
}

// slugify lowercases a name and replaces whitespace with underscores to build
// a filesystem-safe default label.
func slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}
