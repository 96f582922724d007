package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jakechorley/consult-hub/pkg/core/syncer"
)

// RefreshCmd creates the refresh command
func RefreshCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the latest requests from the remote store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ensureLoaded()

			if err := app.Controller.Refresh(app.Ctx, true); err != nil {
				printSyncStatus(app.Out, app.Controller.Status())
				return fmt.Errorf("failed to refresh: %w", err)
			}

			printSyncStatus(app.Out, app.Controller.Status())
			return nil
		},
	}
}

// WatchCmd creates the watch command
func WatchCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep polling the remote store and print your view whenever it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			completed, _ := cmd.Flags().GetBool("completed")

			var mu sync.Mutex
			var last []string
			app.Controller.Subscribe(func(status syncer.Status) {
				mu.Lock()
				defer mu.Unlock()

				printSyncStatus(app.Out, status)
				if status.Err != nil {
					return
				}
				records := app.visible(completed)
				fingerprint := make([]string, 0, len(records))
				for _, rec := range records {
					fingerprint = append(fingerprint, fmt.Sprintf("%s|%s|%s|%s|%t|%d",
						rec.ID, rec.Status, rec.ProposedDay, rec.ProposedTime, rec.IsDeliveryConfirmed, len(rec.InstructorNotes)))
				}
				if slices.Equal(fingerprint, last) {
					return
				}
				last = fingerprint
				printRequestTable(app.Out, records)
			})

			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.startPolling(); err != nil {
				return err
			}

			fmt.Fprintln(app.Out, "Watching for changes, press Ctrl+C to stop")
			<-ctx.Done()
			if app.Ctx.Err() == nil {
				fmt.Fprintln(app.Out, "\nStopping")
			}
			return ignoreCanceled(app.Ctx.Err())
		},
	}

	cmd.Flags().Bool("completed", false, "Instructor view: watch completed requests instead of open ones")

	return cmd
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
