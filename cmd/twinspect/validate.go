package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/iscc/twinspect/internal/bench"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration document",
	Long: `Validate the configuration document and report setup issues.

Document-level problems (missing fields, duplicate labels, unresolved
references) fail immediately. Beyond those, every active benchmark is
checked for unregistered functions and missing dataset installs.`,
	RunE: runValidate,
}

// ValidateResult is the response for the validate command.
type ValidateResult struct {
	Status     string          `json:"status"`
	Benchmarks int             `json:"benchmarks"`
	Active     int             `json:"active"`
	Issues     []ValidateIssue `json:"issues"`
}

// ValidateIssue represents a single issue found during validation.
type ValidateIssue struct {
	Type      string `json:"type"`
	Benchmark string `json:"benchmark,omitempty"`
	Function  string `json:"function,omitempty"`
	Path      string `json:"path,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	opts := mustOptions()
	cfg := mustLoadConfig(opts)
	reg := builtinRegistry()
	metricFuncs := bench.BuiltinMetricFuncs()

	var issues []ValidateIssue
	active := cfg.ActiveBenchmarks()

	for _, bm := range active {
		name := bm.AlgorithmLabel + "/" + bm.DatasetLabel

		algo, _ := cfg.Algorithm(bm.AlgorithmLabel)
		if _, err := reg.Algorithm(algo.Function); err != nil {
			issues = append(issues, ValidateIssue{
				Type: "unregistered_function", Benchmark: name, Function: algo.Function,
			})
		}

		for _, label := range bm.MetricLabels {
			metric, _ := cfg.Metric(label)
			if _, ok := metricFuncs[metric.Function]; !ok {
				issues = append(issues, ValidateIssue{
					Type: "unregistered_function", Benchmark: name, Function: metric.Function,
				})
			}
		}

		path := opts.DataFolder(bm.DatasetLabel)
		if st, err := os.Stat(path); err != nil || !st.IsDir() {
			issues = append(issues, ValidateIssue{
				Type: "missing_dataset", Benchmark: name, Path: path,
			})
		}
	}

	status := "ok"
	if len(issues) > 0 {
		status = "issues"
	}
	if issues == nil {
		issues = []ValidateIssue{}
	}

	if humanOutput {
		if len(issues) == 0 {
			outputHuman("Configuration check: OK\n\n%d benchmarks (%d active)\n",
				len(cfg.Benchmarks), len(active))
		} else {
			outputHuman("Configuration check: %d issues found\n\n", len(issues))
			for _, issue := range issues {
				switch issue.Type {
				case "unregistered_function":
					outputHuman("  [WARN] %s: function %s not registered\n", issue.Benchmark, issue.Function)
				case "missing_dataset":
					outputHuman("  [WARN] %s: dataset not installed at %s\n", issue.Benchmark, issue.Path)
				}
			}
			outputHuman("\n%d benchmarks (%d active)\n", len(cfg.Benchmarks), len(active))
		}
		return nil
	}

	return outputJSON(ValidateResult{
		Status:     status,
		Benchmarks: len(cfg.Benchmarks),
		Active:     len(active),
		Issues:     issues,
	})
}
