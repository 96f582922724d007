package commands

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jakechorley/consult-hub/pkg/sharelink"
)

// ShareCmd creates the share command
func ShareCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print a link that opens another client with the requests you can see",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			completed, _ := cmd.Flags().GetBool("completed")

			app.ensureLoaded()
			records := app.visible(completed)

			if app.Cfg.ShareBaseURL == "" {
				encoded, err := sharelink.Encode(records)
				if err != nil {
					return err
				}
				fmt.Fprintf(app.Out, "%s=%s\n", sharelink.Param, url.QueryEscape(encoded))
				return nil
			}

			link, err := sharelink.Link(app.Cfg.ShareBaseURL, records)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "\nShare link for %d request(s):\n%s\n\n", len(records), link)
			return nil
		},
	}

	cmd.Flags().Bool("completed", false, "Instructor view: share completed requests instead of open ones")

	return cmd
}
