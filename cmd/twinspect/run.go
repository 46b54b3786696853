package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/iscc/twinspect/internal/bench"
	"github.com/iscc/twinspect/internal/config"
	"github.com/iscc/twinspect/internal/task"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all active benchmarks",
	Long: `Run all active benchmarks from the configuration document.

Each benchmark analyzes its installed dataset, generates compact codes
for every file through the task cache, computes the configured metrics
and writes a JSON result artifact into the data root. A failing
benchmark is skipped and the run continues with the next one.

Examples:
  twinspect run
  TWINSPECT_WORKERS=4 twinspect run --human`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	opts := mustOptions()
	cfg := mustLoadConfig(opts)
	cache := mustOpenCache(opts)
	defer cache.Close()

	orch := bench.New(cfg, opts, builtinRegistry(), cache)
	if humanOutput {
		orch.SetProgressReporter(task.ProgressFunc(func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rprocessing tasks: %d/%d", done, total)
		}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := orch.Run(ctx)
	if humanOutput {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		if errors.Is(err, config.ErrConfiguration) {
			exitWithError(ExitConfigError, "%v", err)
		}
		// A partial report exists on cancellation; show it before exiting.
		if report != nil && !humanOutput {
			outputJSON(report)
		}
		exitWithError(ExitError, "run aborted: %v", err)
	}

	if humanOutput {
		printReportHuman(report)
	} else {
		outputJSON(report)
	}
	return nil
}

// printReportHuman prints a one-block summary per benchmark.
func printReportHuman(report *bench.RunReport) {
	outputHuman("Run %s (%s)\n\n", report.RunID, formatDuration(report.FinishedAt.Sub(report.StartedAt)))

	for i := range report.Benchmarks {
		res := &report.Benchmarks[i]
		outputHuman("%s on %s: %s\n", res.Algorithm, res.Dataset, res.Status)
		if res.Error != "" {
			outputHuman("  error: %s\n\n", res.Error)
			continue
		}
		outputHuman("  tasks: %d (%d failed)\n", res.TotalTasks, res.FailedTasks)
		if res.Info != nil {
			outputHuman("  dataset: %d files, %s, checksum %s\n",
				res.Info.TotalFiles, formatBytes(res.Info.TotalSize), res.Info.Checksum)
		}
		for label, value := range res.Metrics {
			if value.Best != nil {
				outputHuman("  %s: best F1 %.4f at threshold %d\n",
					label, value.Best.F1Score, value.Best.Threshold)
			}
			if value.Speed != nil {
				outputHuman("  %s: mean %s, median %s\n",
					label, value.Speed.MeanHuman, value.Speed.MedianHuman)
			}
		}
		for _, warning := range res.Warnings {
			outputHuman("  [WARN] %s\n", warning)
		}
		outputHuman("\n")
	}

	outputHuman("%d benchmarks, %d skipped, %d task failures\n",
		len(report.Benchmarks), report.SkippedBenchmarks(), report.TotalFailures())
}
