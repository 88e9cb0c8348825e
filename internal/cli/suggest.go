package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"legal-workers/internal/legal/ipc"
)

type suggestOutput struct {
	Suggestions []ipc.Suggestion `json:"suggestions"`
	TopSections []string         `json:"topSections"`
}

func newSuggestCommand(opts *options) *cobra.Command {
	var (
		crimeType string
		top       int
	)

	cmd := &cobra.Command{
		Use:   "suggest <description>",
		Short: "Suggest IPC sections for an incident",
		Long: `Suggest matches the incident description and crime type against the
section rules and lists every section that applies, most confident first.

Example:
  legal-cli suggest --crime-type theft "my bike was stolen outside the market"
  legal-cli suggest "I was cheated by an online seller" --top 1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suggestions := ipc.NewDefaultGenerator().Suggest(joinArgs(args), crimeType)
			out := suggestOutput{
				Suggestions: suggestions,
				TopSections: ipc.TopSections(suggestions, top),
			}

			w := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(w, out)
			}
			if len(suggestions) == 0 {
				fmt.Fprintln(w, "No matching sections.")
				return nil
			}
			for _, s := range suggestions {
				fmt.Fprintf(w, "%-10s %-14s %.2f  %s\n", s.Section, s.Title, s.Confidence, s.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&crimeType, "crime-type", "c", "", "reported crime type")
	cmd.Flags().IntVar(&top, "top", 3, "number of sections to keep as the FIR's sections")
	return cmd
}
