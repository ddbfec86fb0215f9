// Command triagectl runs triage conversations and assessments locally.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "triagectl",
		Short: "Run HealthMate triage locally",
		Long: `triagectl runs the HealthMate triage engine without the HTTP server.

Examples:
  # Interactive triage on the terminal
  triagectl chat

  # Assess a set of diagnostic answers
  triagectl assess --symptom headache "throbbing, one-sided" "nausea"

  # List the diagnostic questions for a symptom
  triagectl questions "chest pain"`,
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(newChatCmd(), newAssessCmd(), newQuestionsCmd())
	return root
}
