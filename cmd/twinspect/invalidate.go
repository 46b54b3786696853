package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(invalidateCmd)
}

var invalidateCmd = &cobra.Command{
	Use:   "invalidate <algorithm-label>",
	Short: "Drop cached task results for an algorithm",
	Long: `Drop cached task results for an algorithm.

Use this after changing an algorithm implementation: the cache keys
tasks by file content, so it cannot detect that the code-generation
function itself produces different output now.

Examples:
  twinspect invalidate ac64`,
	Args: cobra.ExactArgs(1),
	RunE: runInvalidate,
}

// InvalidateResponse is the response for the invalidate command.
type InvalidateResponse struct {
	Status    string `json:"status"`
	Algorithm string `json:"algorithm"`
}

func runInvalidate(cmd *cobra.Command, args []string) error {
	label := args[0]
	opts := mustOptions()
	cache := mustOpenCache(opts)
	defer cache.Close()

	if err := cache.InvalidateAlgorithm(label); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Dropped cached tasks for %s\n", label)
		return nil
	}
	return outputJSON(InvalidateResponse{Status: "invalidated", Algorithm: label})
}
