package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"legal-workers/internal/legal/knowledge"
)

func newQuestionsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List suggested starter questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			questions := knowledge.SuggestedQuestions()
			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), questions)
			}
			for i, q := range questions {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, q)
			}
			return nil
		},
	}
}

func newContactsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "contacts",
		Short: "List emergency helpline numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts := knowledge.EmergencyContacts()
			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), contacts)
			}
			for _, c := range contacts {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %-8s %s\n", c.Name, c.Number, c.Description)
			}
			return nil
		},
	}
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "legal-cli %s\n", version)
		},
	}
}
