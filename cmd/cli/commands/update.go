package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/consult-hub/pkg/core/lifecycle"
	"github.com/jakechorley/consult-hub/pkg/core/model"
)

// applyPatch runs patch against the request on behalf of the current role and prints the
// new state
func applyPatch(app *AppContext, id string, patch lifecycle.Patch, done string) (model.ConsultationRequest, error) {
	if err := app.requireRole(patch.Actor()); err != nil {
		return model.ConsultationRequest{}, err
	}

	app.ensureLoaded()

	rec, err := app.Controller.Update(app.Ctx, id, app.Role, patch)
	if err != nil {
		return model.ConsultationRequest{}, fmt.Errorf("failed to %s request %s: %w", strings.ReplaceAll(patch.Name(), "_", " "), id, err)
	}

	fmt.Fprintf(app.Out, "\n✓ %s\n", done)
	fmt.Fprintf(app.Out, "Status: %s%s%s  Proposed: %s\n\n", statusColor(rec.Status), rec.Status, colorReset, proposedSlot(rec))
	return rec, nil
}

// AcceptCmd creates the accept command
func AcceptCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <id>",
		Short: "Accept a pending request (instructor)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := applyPatch(app, args[0], lifecycle.Accept{}, "Request accepted")
			return err
		},
	}
}

// ProposeCmd creates the propose command
func ProposeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "propose <id> <day> <time>",
		Short: "Propose a consultation day and time (instructor)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := lifecycle.ProposeTime{Day: args[1], Time: args[2]}
			_, err := applyPatch(app, args[0], patch, fmt.Sprintf("Proposed %s %s", args[1], args[2]))
			return err
		},
	}
}

// NotesCmd creates the notes command
func NotesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes <id> <text...>",
		Short: "Write consultation notes (instructor)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			appendNotes, _ := cmd.Flags().GetBool("append")

			patch := lifecycle.SetNotes{Notes: strings.Join(args[1:], " "), Append: appendNotes}
			_, err := applyPatch(app, args[0], patch, "Notes saved")
			return err
		},
	}

	cmd.Flags().Bool("append", false, "Append to existing notes instead of replacing them")

	return cmd
}

// ConfirmCmd creates the confirm command
func ConfirmCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm the proposed time was passed on to the student (homeroom)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := applyPatch(app, args[0], lifecycle.ConfirmDelivery{}, "Delivery confirmed")
			return err
		},
	}
}

// CompleteCmd creates the complete command
func CompleteCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a consultation as completed (instructor, notes required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, _ := cmd.Flags().GetString("notes")

			rec, err := applyPatch(app, args[0], lifecycle.Complete{Notes: notes}, "Consultation completed")
			if err != nil {
				return err
			}
			if rec.CompletedAt != nil {
				fmt.Fprintf(app.Out, "Completed at %s\n\n", formatMillis(*rec.CompletedAt))
			}
			return nil
		},
	}

	cmd.Flags().String("notes", "", "Final consultation notes (replaces existing notes)")

	return cmd
}
