// Package cli implements the curriculum command line: one-shot imports,
// the API server and run history.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "curriculum",
		Short: "Import curriculum exports (Export Contract v1) into the content store",
		Long: `Import curriculum exports (Export Contract v1) into the content store.

Subjects, books, chapters, sections, documents, vocabulary sets, practice
questions and exams are upserted by their source ids, so re-running an
import over the same export is safe.

Examples:
  curriculum import --path ./export --dry-run    # Validate an export without writing
  curriculum import --path ./export --commit     # Import and copy assets
  curriculum serve                               # Start the HTTP API and scheduler
  curriculum runs                                # List recent import runs`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		NewImportCommand(),
		NewServeCommand(version),
		NewRunsCommand(),
	)
	return root
}
