package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"healthmate/internal/triage"
)

func newAssessCmd() *cobra.Command {
	var (
		symptom string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "assess --symptom SYMPTOM ANSWER...",
		Short: "Assess diagnostic answers for a symptom",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssess(cmd.OutOrStdout(), symptom, args, asJSON)
		},
	}
	cmd.Flags().StringVar(&symptom, "symptom", "", "primary symptom")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the assessment as JSON")
	_ = cmd.MarkFlagRequired("symptom")
	return cmd
}

func runAssess(out io.Writer, symptom string, answers []string, asJSON bool) error {
	a := triage.Assess(symptom, answers)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}
	_, err := fmt.Fprint(out, a.Summary())
	return err
}

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions SYMPTOM",
		Short: "List the diagnostic questions for a symptom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, q := range triage.QuestionsFor(args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, q)
			}
			return nil
		},
	}
}
