package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/curriculum/internal/config"
	"github.com/mrlokans/curriculum/internal/entrypoint"
)

// NewServeCommand creates the serve subcommand.
func NewServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API, task queue and import scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(config.NewConfig(), version)
		},
	}
}
