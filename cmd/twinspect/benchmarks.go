package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(benchmarksCmd)
}

var benchmarksCmd = &cobra.Command{
	Use:   "benchmarks",
	Short: "List configured benchmarks",
	RunE:  runBenchmarks,
}

func runBenchmarks(cmd *cobra.Command, args []string) error {
	opts := mustOptions()
	cfg := mustLoadConfig(opts)

	if !humanOutput {
		return outputJSON(cfg.Benchmarks)
	}

	for i := range cfg.Benchmarks {
		b := &cfg.Benchmarks[i]
		status := "inactive"
		if b.Active {
			status = "active"
		}
		outputHuman("%-12s on %-12s metrics [%s] %s\n",
			b.AlgorithmLabel, b.DatasetLabel, strings.Join(b.MetricLabels, ", "), status)
	}
	return nil
}
