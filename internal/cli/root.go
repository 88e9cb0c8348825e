// Package cli implements legal-cli, an offline front end to the classifier
// and the IPC section generator.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"legal-workers/internal/legal/knowledge"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type options struct {
	knowledgePath string
	output        string
	verbose       bool
}

// NewRootCommand builds the command tree. version is printed by the
// version subcommand.
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "legal-cli",
		Short: "LegalBrain - keyword legal assistant and IPC section suggester",
		Long: `legal-cli answers legal questions from a keyword knowledge base and
suggests Indian Penal Code sections for an incident description.

It runs entirely offline against the built-in knowledge base, or a YAML
file given with --knowledge. Answers are informational and are not legal
advice.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case outputText, outputJSON:
				return nil
			default:
				return fmt.Errorf("unsupported output %q (want text or json)", opts.output)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.knowledgePath, "knowledge", "", "YAML knowledge base (default: built-in)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputText, "output format: text or json")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newClassifyCommand(opts),
		newSuggestCommand(opts),
		newQuestionsCommand(opts),
		newContactsCommand(opts),
		newRegistryCommand(opts),
		newVersionCommand(version),
	)
	return root
}

// Execute runs the CLI with the process arguments.
func Execute(version string) error {
	return NewRootCommand(version).Execute()
}

func (o *options) loadBase(cmd *cobra.Command) (*knowledge.Base, error) {
	if o.knowledgePath == "" {
		return knowledge.Default(), nil
	}
	base, err := knowledge.LoadFile(o.knowledgePath)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loaded %d entries from %s\n", base.Len(), o.knowledgePath)
	}
	return base, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
