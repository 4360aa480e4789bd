package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mrlokans/curriculum/internal/config"
	"github.com/mrlokans/curriculum/internal/database"
	"github.com/mrlokans/curriculum/internal/database/runs"
	"github.com/mrlokans/curriculum/internal/entities"
	"github.com/mrlokans/curriculum/internal/logger"
)

// NewRunsCommand creates the runs subcommand.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent import runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return listRuns(ctx, cmd.OutOrStdout(), config.NewConfig(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

func listRuns(ctx context.Context, out io.Writer, cfg *config.Config, limit int) error {
	db, err := database.NewDatabase(cfg.Database, logger.Nop())
	if err != nil {
		return errors.Wrap(err, "failed to initialize database")
	}
	defer db.Close()

	list, total, err := runs.NewRepository(db.DB).List(ctx, limit, 0)
	if err != nil {
		return errors.Wrap(err, "list import runs")
	}

	if len(list) == 0 {
		fmt.Fprint(out, pterm.Info.Sprintln("No import runs recorded"))
		return nil
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(runsTable(list)).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, rendered)
	fmt.Fprintf(out, "Showing %d of %d runs\n", len(list), total)
	return nil
}

func runsTable(list []entities.ImportRun) pterm.TableData {
	data := pterm.TableData{{"ID", "Started", "Mode", "Trigger", "Status", "Processed", "Errors", "Path"}}
	for _, r := range list {
		data = append(data, []string{
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Mode,
			string(r.Trigger),
			string(r.Status),
			fmt.Sprintf("%d/%d", r.ItemsProcessed, r.TotalItems),
			fmt.Sprint(r.ErrorCount),
			r.ExportPath,
		})
	}
	return data
}
