package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newApplyCommand() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "apply [names]",
		Short: "Apply state changes",
		Long: `Apply the named changers and/or the changes declared in a manifest.

Names are comma-separated and resolved against the changer registry
before anything runs; an unknown name aborts without touching the
machine. Changers whose resource is already in the desired state are
skipped. A failed change is reported but does not stop later changes.`,
		Example: `  # Install k9s and lazygit
  devrig apply k9s,lazygit

  # Apply a manifest with full command output
  devrig apply --manifest rig.cue --verbose`,
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

			summary := eng.ApplyChanges(cmd.Context(), verbose)
			fmt.Printf("Apply complete: %d succeeded, %d failed, %d skipped\n",
				summary.Succeeded, summary.Failed, summary.Skipped)

			if summary.Failed > 0 {
				return fmt.Errorf("%d change(s) failed", summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "manifest file (.cue, .yaml or .yml)")

	return cmd
}
