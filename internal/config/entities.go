package config

import "fmt"

// Mode is the perceptual category of a media asset or dataset.
type Mode string

// Supported perceptual modes.
const (
	ModeText  Mode = "text"
	ModeImage Mode = "image"
	ModeAudio Mode = "audio"
	ModeVideo Mode = "video"
)

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeText, ModeImage, ModeAudio, ModeVideo:
		return true
	}
	return false
}

// Algorithm identifies a similarity-preserving compact-code generator.
// Algorithms are immutable once loaded and referenced by label from benchmarks.
type Algorithm struct {
	Name         string   `yaml:"name" json:"name"`
	Label        string   `yaml:"label" json:"label"`
	Mode         Mode     `yaml:"mode" json:"mode"`
	Function     string   `yaml:"function" json:"function"`
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

func (a *Algorithm) validate() error {
	if a.Name == "" {
		return missingField("algorithm", a.Label, "name")
	}
	if a.Label == "" {
		return missingField("algorithm", a.Name, "label")
	}
	if !a.Mode.Valid() {
		return badMode("algorithm", a.Label, a.Mode)
	}
	if a.Function == "" {
		return missingField("algorithm", a.Label, "function")
	}
	return nil
}

// Dataset describes an installable corpus. Once installed, the on-disk folder
// structure encodes cluster membership through the filename convention parsed
// by the dataset analyzer, so no auxiliary index file is needed.
type Dataset struct {
	Name      string `yaml:"name" json:"name"`
	Label     string `yaml:"label,omitempty" json:"label,omitempty"`
	Info      string `yaml:"info,omitempty" json:"info,omitempty"`
	URL       string `yaml:"url" json:"url"`
	Mode      Mode   `yaml:"mode" json:"mode"`
	Installer string `yaml:"installer,omitempty" json:"installer,omitempty"`
	Samples   int    `yaml:"samples,omitempty" json:"samples,omitempty"`
	Clusters  int    `yaml:"clusters,omitempty" json:"clusters,omitempty"`
	Seed      int64  `yaml:"seed,omitempty" json:"seed,omitempty"`
	Checksum  string `yaml:"checksum,omitempty" json:"checksum,omitempty"`
}

func (d *Dataset) validate() error {
	if d.Name == "" {
		return missingField("dataset", d.Label, "name")
	}
	if d.URL == "" {
		return missingField("dataset", d.effectiveLabel(), "url")
	}
	if !d.Mode.Valid() {
		return badMode("dataset", d.effectiveLabel(), d.Mode)
	}
	return nil
}

// effectiveLabel returns the explicit label or a default derived from the name.
func (d *Dataset) effectiveLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return slugify(d.Name)
}

// Transformation is a named, parameterized perceptual distortion applied to
// cluster members to synthesize near-duplicates. Applied transformations are
// recoverable from the resulting filename.
type Transformation struct {
	Name     string `yaml:"name" json:"name"`
	Label    string `yaml:"label" json:"label"`
	Info     string `yaml:"info,omitempty" json:"info,omitempty"`
	Mode     Mode   `yaml:"mode" json:"mode"`
	Function string `yaml:"function" json:"function"`
	Params   []any  `yaml:"params,omitempty" json:"params,omitempty"`
}

func (t *Transformation) validate() error {
	if t.Name == "" {
		return missingField("transformation", t.Label, "name")
	}
	if t.Label == "" {
		return missingField("transformation", t.Name, "label")
	}
	if !t.Mode.Valid() {
		return badMode("transformation", t.Label, t.Mode)
	}
	if t.Function == "" {
		return missingField("transformation", t.Label, "function")
	}
	return nil
}

// Metric is a named, labeled calculation over benchmark results.
type Metric struct {
	Name     string `yaml:"name" json:"name"`
	Label    string `yaml:"label" json:"label"`
	Function string `yaml:"function" json:"function"`
}

func (m *Metric) validate() error {
	if m.Name == "" {
		return missingField("metric", m.Label, "name")
	}
	if m.Label == "" {
		return missingField("metric", m.Name, "label")
	}
	if m.Function == "" {
		return missingField("metric", m.Label, "function")
	}
	return nil
}

// Benchmark is one unit of evaluation work, referencing an algorithm, a
// dataset and a set of metrics by label. Inactive benchmarks are skipped
// during a full run.
type Benchmark struct {
	AlgorithmLabel string   `yaml:"algorithm_label" json:"algorithm_label"`
	DatasetLabel   string   `yaml:"dataset_label" json:"dataset_label"`
	MetricLabels   []string `yaml:"metric_labels" json:"metric_labels"`
	Active         bool     `yaml:"active" json:"active"`
	MaxThreshold   int      `yaml:"max_threshold,omitempty" json:"max_threshold,omitempty"`
}

func (b *Benchmark) validate() error {
	if b.AlgorithmLabel == "" {
		return missingField("benchmark", b.DatasetLabel, "algorithm_label")
	}
	if b.DatasetLabel == "" {
		return missingField("benchmark", b.AlgorithmLabel, "dataset_label")
	}
	if len(b.MetricLabels) == 0 {
		return &Error{Msg: fmt.Sprintf("benchmark %s/%s: metric_labels must not be empty",
			b.AlgorithmLabel, b.DatasetLabel)}
	}
	return nil
}

func missingField(kind, ident, field string) error {
	if ident == "" {
		ident = "<unnamed>"
	}
	return &Error{Msg: fmt.Sprintf("%s %s: missing required field %q", kind, ident, field)}
}

func badMode(kind, ident string, mode Mode) error {
	return &Error{Msg: fmt.Sprintf("%s %s: invalid mode %q", kind, ident, mode)}
}
