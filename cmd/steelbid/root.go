package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X main.Version=...".
var Version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "steelbid",
		Short: "Steel section weights and bid estimates",
		Long: `steelbid - structural steel takeoff and bid tool

Resolves AISC section designations as they appear on drawings
(W8x31, HSS6X6X.25, L3-1/2X3-1/2X1/4, PL1/2X6, Pipe 3 XH) to
weights, and prices member lists into bid estimates.

Examples:
  steelbid weight W8x31 --length 20
  steelbid normalize "L3½x3½x¼" --trace
  steelbid sections --prefix HSS6X6
  steelbid estimate --file takeoff.json --settings shop.yaml --xlsx bid.xlsx`,
		SilenceUsage: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		newWeightCmd(),
		newNormalizeCmd(),
		newSectionsCmd(),
		newEstimateCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of steelbid",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "steelbid v%s\n", Version)
		},
	}
}
