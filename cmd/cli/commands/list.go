package commands

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ListCmd creates the list command
func ListCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List consultation requests for your role (all requests when no name is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			completed, _ := cmd.Flags().GetBool("completed")

			app.ensureLoaded()
			app.Logger.Debug("list command",
				zap.String("role", string(app.Role)),
				zap.String("name", app.Name),
				zap.Bool("completed", completed))

			printSyncStatus(app.Out, app.Controller.Status())
			printRequestTable(app.Out, app.visible(completed))
			return nil
		},
	}

	cmd.Flags().Bool("completed", false, "Instructor view: show completed requests instead of open ones")

	return cmd
}

// ShowCmd creates the show command
func ShowCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details of a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ensureLoaded()

			rec, err := app.find(args[0])
			if err != nil {
				return err
			}

			printRequestDetail(app.Out, rec, time.Now())
			return nil
		},
	}
}
