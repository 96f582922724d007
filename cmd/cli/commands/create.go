package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/consult-hub/pkg/core/lifecycle"
	"github.com/jakechorley/consult-hub/pkg/core/model"
)

// CreateCmd creates the create command
func CreateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a consultation request for a student (homeroom)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireRole(model.RoleHomeroom); err != nil {
				return err
			}
			requester, err := app.requireName()
			if err != nil {
				return err
			}

			draft := lifecycle.Draft{RequesterName: requester}
			draft.StudentName, _ = cmd.Flags().GetString("student")
			draft.StudentClass, _ = cmd.Flags().GetString("class")
			draft.Subject, _ = cmd.Flags().GetString("subject")
			draft.AssignedInstructorName, _ = cmd.Flags().GetString("instructor")
			draft.Reason, _ = cmd.Flags().GetString("reason")
			draft.AvailableTimeSlots, _ = cmd.Flags().GetStringSlice("slots")

			app.ensureLoaded()

			rec, err := app.Controller.Create(app.Ctx, draft)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "\n✓ Request created for %s (%s)\n", rec.StudentName, rec.StudentClass)
			fmt.Fprintf(app.Out, "ID: %s\n\n", rec.ID)
			return nil
		},
	}

	cmd.Flags().String("student", "", "Student name")
	cmd.Flags().String("class", "", "Student class, e.g. 2-3")
	cmd.Flags().String("subject", "", "Subject of the consultation")
	cmd.Flags().String("instructor", "", "Name of the assigned instructor")
	cmd.Flags().String("reason", "", "Reason for the request")
	cmd.Flags().StringSlice("slots", nil, "Available slots as Day-Period, e.g. Mon-3,Wed-5")

	return cmd
}
