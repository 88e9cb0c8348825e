package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"legal-workers/pkg/registry"
)

func newRegistryCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the BPMN activity registry of the workers",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the task types worker-manager serves",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				reg := registry.Builtin()
				if opts.output == outputJSON {
					return writeJSON(cmd.OutOrStdout(), reg)
				}
				for _, a := range reg.Activities {
					fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-16s %-6s %s\n", a.TaskType, a.Category, a.Timeout, a.DisplayName)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:     "export <path>",
			Short:   "Write the registry as JSON for the modeler",
			Example: "  legal-cli registry export configs/activity-registry.json",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				reg := registry.Builtin()
				reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
				if err := registry.SaveRegistry(reg, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d activities to %s\n", len(reg.Activities), args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate <path>",
			Short: "Validate a registry file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				reg, err := registry.LoadRegistry(args[0])
				if err != nil {
					return fmt.Errorf("failed to load registry: %w", err)
				}
				if err := reg.Validate(); err != nil {
					return fmt.Errorf("registry validation failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
				return nil
			},
		},
	)
	return cmd
}
