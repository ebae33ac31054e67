// Command dealflow is the ops CLI for the deal triage pipeline
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dealflow",
		Short:        "Deal triage ops tooling",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("thesis", "", "triage config YAML (defaults to DEALS_* env)")

	root.AddCommand(
		newHashCmd(),
		newAssessCmd(),
		newClassifyCmd(),
		newThesisCmd(),
		newMigrateCmd(),
		newStatsCmd(),
		newPingCmd(),
	)
	return root
}
