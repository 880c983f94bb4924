package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newListCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available changers",
		Long: `List the named changers that can be passed to apply and rollback,
with a description of what each one does.`,
		Example: `  # List changers
  devrig list

  # Machine-readable output
  devrig list --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			entries := rt.registry.Entries(rt.log, rt.runner)

			switch output {
			case "text":
				for _, entry := range entries {
					fmt.Printf("%-12s %s\n", entry.Name, entry.Description)
				}
			case "json":
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			case "yaml":
				data, err := yaml.Marshal(entries)
				if err != nil {
					return err
				}
				fmt.Print(string(data))
			default:
				return fmt.Errorf("invalid output format %q (want text, json or yaml)", output)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")

	return cmd
}
