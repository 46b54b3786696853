package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(algorithmsCmd)
}

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List configured algorithms and their registration status",
	RunE:  runAlgorithms,
}

// AlgorithmEntry is one row of the algorithms listing.
type AlgorithmEntry struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Mode       string `json:"mode"`
	Function   string `json:"function"`
	Registered bool   `json:"registered"`
}

func runAlgorithms(cmd *cobra.Command, args []string) error {
	opts := mustOptions()
	cfg := mustLoadConfig(opts)
	reg := builtinRegistry()

	entries := make([]AlgorithmEntry, 0, len(cfg.Algorithms))
	for i := range cfg.Algorithms {
		a := &cfg.Algorithms[i]
		_, err := reg.Algorithm(a.Function)
		entries = append(entries, AlgorithmEntry{
			Name:       a.Name,
			Label:      a.Label,
			Mode:       string(a.Mode),
			Function:   a.Function,
			Registered: err == nil,
		})
	}

	if !humanOutput {
		return outputJSON(entries)
	}

	for _, e := range entries {
		status := "registered"
		if !e.Registered {
			status = "NOT REGISTERED"
		}
		outputHuman("%-12s %-6s %-32s %s\n", e.Label, e.Mode, e.Function, status)
	}
	return nil
}
