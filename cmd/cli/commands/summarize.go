package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/consult-hub/internal/config"
	"github.com/jakechorley/consult-hub/pkg/core/lifecycle"
	"github.com/jakechorley/consult-hub/pkg/core/model"
	"github.com/jakechorley/consult-hub/pkg/summary"
)

// summaryHeading prefixes generated summaries appended to the notes
const summaryHeading = "[AI 요약]"

// SummarizeCmd creates the summarize command
func SummarizeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <id>",
		Short: "Summarize consultation notes with Gemini and append the summary (instructor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			if err := app.requireRole(model.RoleInstructor); err != nil {
				return err
			}
			if app.Summarizer == nil {
				return fmt.Errorf("summaries are disabled: set %s to enable them", config.EnvGeminiAPIKey)
			}

			app.ensureLoaded()

			rec, err := app.find(args[0])
			if err != nil {
				return err
			}

			app.Logger.Info("Summarizing notes", zap.String("id", rec.ID))
			text := app.Summarizer.Summarize(app.Ctx, rec)

			fmt.Fprintf(app.Out, "\n%s\n%s\n\n", summaryHeading, text)

			if dryRun || text == summary.NoSummaryMessage || text == summary.FailureMessage {
				return nil
			}

			patch := lifecycle.SetNotes{Notes: summaryHeading + "\n" + text, Append: true}
			_, err = applyPatch(app, rec.ID, patch, "Summary appended to notes")
			return err
		},
	}

	cmd.Flags().Bool("dry-run", false, "Print the summary without saving it")

	return cmd
}
