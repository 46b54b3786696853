package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/iscc/twinspect/internal/config"
	"github.com/iscc/twinspect/internal/dataset"
)

var infoMode string

func init() {
	infoCmd.Flags().StringVar(&infoMode, "mode", "", "Override mode inference (text, image, audio, video)")
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info <dataset>",
	Short: "Analyze an installed dataset folder",
	Long: `Analyze an installed dataset folder and report its summary: file and
cluster counts, cluster size distribution, distractor ratio, detected
transformations and the folder checksum.

The argument is a dataset label from the configuration document or a
folder path.

Examples:
  twinspect info fma_small
  twinspect info /data/twinspect/fma_small --human`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	opts := mustOptions()
	root, ds, cfg := resolveDataset(opts, args[0])

	analyzeOpts := dataset.AnalyzeOptions{Mode: infoMode}
	if cfg != nil {
		analyzeOpts.KnownTransformations = cfg.TransformationLabels()
	}
	if analyzeOpts.Mode == "" && ds != nil {
		analyzeOpts.Mode = string(ds.Mode)
	}

	info, err := dataset.Analyze(root, analyzeOpts)
	if err != nil {
		exitWithError(ExitDataError, "analyzing %s: %v", root, err)
	}

	if !humanOutput {
		return outputJSON(info)
	}

	outputHuman("Dataset %s (%s)\n\n", info.DatasetLabel, info.DatasetMode)
	outputHuman("  files:       %d (%s)\n", info.TotalFiles, formatBytes(info.TotalSize))
	outputHuman("  clusters:    %d (sizes %g-%g, median %g)\n",
		info.TotalClusters, info.ClusterSizes.Min, info.ClusterSizes.Max, info.ClusterSizes.Median)
	outputHuman("  distractors: %d\n", info.TotalDistractorFiles)
	if info.RatioClusterToDistractor != nil {
		outputHuman("  ratio:       %.2f\n", *info.RatioClusterToDistractor)
	}
	if len(info.Transformations) > 0 {
		outputHuman("  transforms:  %v\n", info.Transformations)
	}
	outputHuman("  checksum:    %s\n", info.Checksum)
	return nil
}

// resolveDataset maps a label-or-path argument to the dataset folder, the
// matching configured dataset (if any) and the loaded configuration. The
// configuration is optional for path arguments.
func resolveDataset(opts *config.Options, arg string) (string, *config.Dataset, *config.Configuration) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		cfg = nil
	}

	if st, err := os.Stat(arg); err == nil && st.IsDir() {
		return arg, nil, cfg
	}

	if cfg != nil {
		if ds, ok := cfg.Dataset(arg); ok {
			return opts.DataFolder(ds.Label), ds, cfg
		}
	}
	return opts.DataFolder(arg), nil, cfg
}
