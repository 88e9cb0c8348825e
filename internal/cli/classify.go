package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"legal-workers/internal/legal/classifier"
)

type classifyOutput struct {
	Query    string             `json:"query"`
	Language string             `json:"language"`
	Result   classifier.Result  `json:"result"`
	Scores   []classifier.Score `json:"scores,omitempty"`
}

func newClassifyCommand(opts *options) *cobra.Command {
	var (
		language string
		explain  bool
	)

	cmd := &cobra.Command{
		Use:   "classify <question>",
		Short: "Answer a legal question from the knowledge base",
		Long: `Classify scores the question against every knowledge base entry and
prints the best answer, or a topic fallback when nothing scores high
enough.

Example:
  legal-cli classify "how do I apply for anticipatory bail"
  legal-cli classify --language hindi "what is section 498a"
  legal-cli classify --explain -o json "consumer complaint"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := opts.loadBase(cmd)
			if err != nil {
				return err
			}
			c := classifier.New(base)
			query := joinArgs(args)
			if language == "" {
				language = classifier.LanguageEnglish
			}

			out := classifyOutput{
				Query:    query,
				Language: language,
				Result:   c.Classify(query, language),
			}
			if explain {
				out.Scores = c.Rank(query)
			}

			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printClassification(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", classifier.LanguageEnglish, "response language (english, hindi, marathi)")
	cmd.Flags().BoolVar(&explain, "explain", false, "show the score of every entry")
	return cmd
}

func printClassification(w io.Writer, out classifyOutput) {
	r := out.Result
	source := r.EntryID
	if r.Fallback {
		source = "fallback"
	}
	fmt.Fprintf(w, "Answer (%s, confidence %.2f):\n%s\n", source, r.Confidence, r.Response)

	if len(r.RelatedSections) > 0 {
		fmt.Fprintln(w, "\nRelated sections:")
		for _, s := range r.RelatedSections {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	if len(r.SuggestedActions) > 0 {
		fmt.Fprintln(w, "\nSuggested actions:")
		for _, a := range r.SuggestedActions {
			fmt.Fprintf(w, "  - %s\n", a)
		}
	}

	if len(out.Scores) > 0 {
		fmt.Fprintln(w, "\nScores:")
		for _, s := range out.Scores {
			fmt.Fprintf(w, "  %-24s %d/%d keywords  %.3f\n", s.EntryID, s.Matches, s.Keywords, s.Confidence)
		}
	}
}
