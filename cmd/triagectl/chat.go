package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"healthmate/internal/agent"
	"healthmate/internal/config"
	"healthmate/internal/logging"
	"healthmate/internal/triage"
)

// errEmergency is returned when the conversation ended in an emergency.
var errEmergency = errors.New("emergency detected")

type chatOptions struct {
	analyze    bool
	skipDiag   bool
	configPath string
}

func newChatCmd() *cobra.Command {
	var opts chatOptions
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Run an interactive triage conversation",
		Long: `Run a triage conversation on stdin and stdout, print the risk score,
then walk through the diagnostic questionnaire for the reported symptom.

With --analyze the configured analyst writes a narrative report at the end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var analyst agent.Analyst
			if opts.analyze {
				cfg, err := config.Load(opts.configPath)
				if err != nil {
					return err
				}
				logger, err := logging.New(cfg.Logging)
				if err != nil {
					return err
				}
				defer func() { _ = logging.Sync(logger) }()
				analyst = agent.New(cfg.Analysis, logger)
			}
			return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), analyst, opts.skipDiag)
		},
	}
	cmd.Flags().BoolVar(&opts.analyze, "analyze", false, "generate an analyst report after the triage")
	cmd.Flags().BoolVar(&opts.skipDiag, "skip-questions", false, "skip the diagnostic questionnaire")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to YAML config used with --analyze")
	return cmd
}

// runChat drives one triage conversation. analyst may be nil.
func runChat(ctx context.Context, in io.Reader, out io.Writer, analyst agent.Analyst, skipQuestions bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := bufio.NewScanner(in)
	engine := triage.NewEngine()

	fmt.Fprintf(out, "HealthMate: %s\n", engine.Greeting())

	for !engine.Complete() {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return io.ErrUnexpectedEOF
		}

		res := engine.Advance(scanner.Text())
		fmt.Fprintf(out, "HealthMate: %s\n", res.Message)

		if res.EmergencyDetected() {
			fmt.Fprintf(out, "Trigger: %s (%q)\n", res.Trigger.Category, res.Trigger.Phrase)
			return errEmergency
		}
	}

	profile := engine.Profile()
	risk := triage.NewRiskScorer().Score(profile)
	printRisk(out, risk)
	if triage.SeriousCombination(profile.Symptom(), profile.AdditionalSymptoms) {
		fmt.Fprintln(out, "⚠ This combination of symptoms needs prompt medical attention.")
	}

	if !skipQuestions {
		var answers []string
		for {
			q, ok := triage.NextQuestion(profile.Symptom(), answers)
			if !ok {
				break
			}
			fmt.Fprintf(out, "Q%d: %s\n> ", len(answers)+1, q)
			if !scanner.Scan() {
				break
			}
			answers = append(answers, scanner.Text())
		}
		if len(answers) > 0 {
			fmt.Fprint(out, triage.Assess(profile.Symptom(), answers).Summary())
		}
	}

	if analyst != nil {
		res := analyst.Analyze(ctx, agent.Request{
			Profile:        profile.Fields(),
			RiskAssessment: risk.Reasoning,
			Urgency:        risk.UrgencyLevel.String(),
		})
		fmt.Fprintf(out, "\n%s\n", res.Report)
		if !res.Success {
			fmt.Fprintf(out, "(remote analysis unavailable, report produced by %s)\n", res.Model)
		}
	}
	return nil
}

func printRisk(out io.Writer, r triage.RiskScore) {
	fmt.Fprintf(out, "\nUrgency: %s %s (%s), score %.2f\n", r.UrgencyLevel.Glyph(), r.UrgencyLevel, r.UrgencyLevel.Label(), r.OverallScore)
	fmt.Fprintln(out, r.Reasoning)
	fmt.Fprintln(out, strings.Join(r.Recommendations, "\n"))
}
