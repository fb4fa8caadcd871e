package main

import (
	"strings"

	"github.com/spf13/cobra"

	"doorlock-remote/internal/application"
	"doorlock-remote/internal/domain"
)

var flagDryRun bool

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Classify a typed sentence as if it had been spoken",
	Long: `Send a sentence through intent classification and, unless --dry-run
is given, on to the lock. Useful for checking what a phrase maps to
without recording audio.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		creds := a.credentials()

		if !flagDryRun {
			return a.finish(a.pipeline(nil).ProcessText(cmd.Context(), text, creds))
		}

		intent, err := a.classifier().Classify(cmd.Context(), text, creds.APIKey)
		if err != nil {
			return a.finish(domain.UserMessageOutcome(domain.UserMessage(err)))
		}

		renderField(a.out, "reply", intent.Raw)
		switch intent.Status {
		case domain.IntentRecognized:
			renderField(a.out, "command", string(intent.Command))
			if intent.Parameter != "" {
				renderField(a.out, "parameter", intent.Parameter)
			}
			return nil
		case domain.IntentFailed:
			return a.finish(domain.UserMessageOutcome(domain.UserMessage(domain.ClassificationError(intent.Reason))))
		default:
			return a.finish(domain.UserMessageOutcome(application.UnrecognizedMessage))
		}
	},
}

func init() {
	classifyCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the classification without sending anything")

	rootCmd.AddCommand(classifyCmd)
}
