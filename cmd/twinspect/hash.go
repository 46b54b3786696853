package main

import (
	"github.com/spf13/cobra"

	"github.com/iscc/twinspect/internal/dataset"
)

var (
	hashExpect     string
	hashAllowDupes bool
)

func init() {
	hashCmd.Flags().StringVar(&hashExpect, "expect", "", "Fail unless the hash matches this value")
	hashCmd.Flags().BoolVar(&hashAllowDupes, "allow-dupes", false, "Tolerate files with identical content")
	rootCmd.AddCommand(hashCmd)
}

var hashCmd = &cobra.Command{
	Use:   "hash <folder>",
	Short: "Compute the secure 256-bit content hash of a dataset folder",
	Long: `Compute the secure 256-bit content hash of a dataset folder.

Every file is read in full. Empty files and duplicate content are
reported as errors unless --allow-dupes is set, which makes this command
suitable for verifying freshly installed datasets.

Examples:
  twinspect hash /data/twinspect/fma_small
  twinspect hash /data/twinspect/fma_small --expect <hash> --allow-dupes`,
	Args: cobra.ExactArgs(1),
	RunE: runHash,
}

func runHash(cmd *cobra.Command, args []string) error {
	root := args[0]

	sum, err := dataset.CheckDirSecure(root, hashExpect, hashAllowDupes)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		outputHuman("%s  %s\n", sum, root)
		return nil
	}
	return outputJSON(ChecksumResponse{
		Path:     root,
		Checksum: sum,
		Verified: hashExpect != "",
	})
}
