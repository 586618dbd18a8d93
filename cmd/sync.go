package cmd

import (
	"fmt"

	"github.com/lukman83/vitrine/internal/platform"
	"github.com/lukman83/vitrine/internal/ui"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the upstream catalog into the local snapshot database",
	Long:  "Replaces the snapshot with the current upstream catalog, for use with --platform snapshot.",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if err := initPlatforms(); err != nil {
		return err
	}
	src, err := platform.Get("fakestore")
	if err != nil {
		return err
	}
	store, err := openSnapshot()
	if err != nil {
		return err
	}

	spin := ui.NewSpinner(cmd.ErrOrStderr())
	spin.Start("Syncing snapshot...")
	n, err := store.Sync(platform.WithProgress(cmd.Context(), spin.Update), src)
	spin.Stop()
	if err != nil {
		return err
	}

	log.WithField("products", n).Info("snapshot synced")
	fmt.Fprintf(cmd.OutOrStdout(), "Synced %d products into %s\n", n, cfg.SnapshotDB)
	return nil
}
