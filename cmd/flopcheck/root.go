package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flopcheck",
		Short: "Check whether movies are flops.",
		Long: `flopcheck reports whether movies are flops. A movie is a flop ` +
			`when its total gross is unknown or below 225,000,000.`,
		SilenceUsage: true,
	}
	root.AddCommand(newClassifyCmd(), newReportCmd())
	return root
}
