package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devrig/devrig/pkg/engine"
)

func newPlanCommand() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "plan [names]",
		Short: "Show what apply would do",
		Long: `Check each changer's current state and report whether apply would
change it or skip it. Nothing on the machine is modified.

Targets claimed by more than one changer are reported so overlapping
changes can be spotted before an apply.`,
		Example: `  # Preview a manifest
  devrig plan --manifest rig.cue`,
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

			ctx := cmd.Context()
			var wouldApply, wouldSkip int
			for _, changer := range built {
				if changer.IsChanged(ctx) {
					fmt.Printf("  skip   %s (already applied)\n", engine.Path(changer))
					wouldSkip++
				} else {
					fmt.Printf("  apply  %s: %s\n", engine.Path(changer), changer.Description())
					wouldApply++
				}
			}
			fmt.Printf("Plan: %d to apply, %d to skip\n", wouldApply, wouldSkip)

			for checksum, group := range engine.ConflictingTargets(built) {
				names := make([]string, 0, len(group))
				for _, changer := range group {
					names = append(names, engine.Path(changer))
				}
				rt.log.WithField("target", checksum[:12]).
					Warnf("target claimed by %d changers: %v", len(group), names)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "manifest file (.cue, .yaml or .yml)")

	return cmd
}
