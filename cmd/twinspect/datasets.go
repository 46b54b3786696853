package main

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(datasetsCmd)
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List configured datasets and their install status",
	RunE:  runDatasets,
}

// DatasetEntry is one row of the datasets listing.
type DatasetEntry struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Mode      string `json:"mode"`
	URL       string `json:"url"`
	Path      string `json:"path"`
	Installed bool   `json:"installed"`
	Checksum  string `json:"checksum,omitempty"`
}

func runDatasets(cmd *cobra.Command, args []string) error {
	opts := mustOptions()
	cfg := mustLoadConfig(opts)

	entries := make([]DatasetEntry, 0, len(cfg.Datasets))
	for i := range cfg.Datasets {
		d := &cfg.Datasets[i]
		path := opts.DataFolder(d.Label)
		st, err := os.Stat(path)
		entries = append(entries, DatasetEntry{
			Name:      d.Name,
			Label:     d.Label,
			Mode:      string(d.Mode),
			URL:       d.URL,
			Path:      path,
			Installed: err == nil && st.IsDir(),
			Checksum:  d.Checksum,
		})
	}

	if !humanOutput {
		return outputJSON(entries)
	}

	for _, e := range entries {
		status := "not installed"
		if e.Installed {
			status = "installed"
		}
		outputHuman("%-12s %-6s %-14s %s\n", e.Label, e.Mode, status, e.Path)
	}
	return nil
}
