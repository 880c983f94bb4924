package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRollbackCommand() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "rollback [names]",
		Short: "Revert applied state changes",
		Long: `Revert the named changers and/or the changes declared in a manifest.

Changers that were never applied are skipped. A changer with nothing to
restore (for example a file change whose backup is gone) reports a
warning, not a failure.`,
		Example: `  # Uninstall k9s
  devrig rollback k9s

  # Revert a manifest
  devrig rollback --manifest rig.cue`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			built, err := rt.buildChangers(args, manifestPath)
			if err != nil {
				return err
			}

			eng := rt.newEngine()
			for _, changer := range built {
				eng.AddStateChanger(changer)
			}

			summary := eng.RollbackChanges(cmd.Context(), verbose)
			fmt.Printf("Rollback complete: %d succeeded, %d failed, %d skipped\n",
				summary.Succeeded, summary.Failed, summary.Skipped)

			if summary.Failed > 0 {
				return fmt.Errorf("%d rollback(s) failed", summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "manifest file (.cue, .yaml or .yml)")

	return cmd
}
