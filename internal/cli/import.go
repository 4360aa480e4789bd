package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mrlokans/curriculum/internal/config"
	"github.com/mrlokans/curriculum/internal/entities"
	"github.com/mrlokans/curriculum/internal/entrypoint"
	"github.com/mrlokans/curriculum/internal/importers"
	"github.com/mrlokans/curriculum/internal/logger"
	"github.com/mrlokans/curriculum/internal/services"
)

// ErrImportFailed is returned when a run finished but its report has errors.
var ErrImportFailed = errors.New("import finished with errors")

// ImportCommand runs one import from the command line.
type ImportCommand struct {
	ExportPath   string
	ManifestPath string
	AssetDir     string
	ReportPath   string
	LogPath      string
	DryRun       bool
	Commit       bool
}

// NewImportCommand creates the import subcommand.
func NewImportCommand() *cobra.Command {
	ic := &ImportCommand{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an export directory",
		Long: `Import an export directory (Export Contract v1) into the content store.

Exactly one of --dry-run or --commit is required. A dry run walks and
validates the whole export without writing records or copying assets.

The run report is written to IMPORT_REPORT_PATH and events are appended
to IMPORT_LOG_PATH unless --report or --log are given. The command exits
non-zero when the report contains errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ic.Run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&ic.ExportPath, "path", "p", "", "Path to the export directory")
	cmd.Flags().StringVar(&ic.ManifestPath, "manifest", "", "Manifest file (default: <path>/"+config.DefaultManifestName+")")
	cmd.Flags().StringVarP(&ic.AssetDir, "assets", "a", "", "Where assets are copied (default: IMPORT_ASSET_DIR)")
	cmd.Flags().StringVar(&ic.ReportPath, "report", "", "Report file (default: IMPORT_REPORT_PATH)")
	cmd.Flags().StringVar(&ic.LogPath, "log", "", "Event log file (default: IMPORT_LOG_PATH)")
	cmd.Flags().BoolVarP(&ic.DryRun, "dry-run", "d", false, "Run the import without writing to the database")
	cmd.Flags().BoolVarP(&ic.Commit, "commit", "c", false, "Commit changes to the database and assets")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

// Run executes the import and prints the summary.
func (ic *ImportCommand) Run(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	mode, err := importers.ParseMode(ic.DryRun, ic.Commit)
	if err != nil {
		return err
	}

	exportPath, err := filepath.Abs(ic.ExportPath)
	if err != nil {
		return errors.Wrapf(err, "resolve %s", ic.ExportPath)
	}
	assetDir := ic.AssetDir
	if assetDir != "" {
		if assetDir, err = filepath.Abs(assetDir); err != nil {
			return errors.Wrapf(err, "resolve %s", ic.AssetDir)
		}
	}

	cfg := config.NewConfig()
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer log.Sync()

	var opts []entrypoint.OpenOption
	if mode.DryRun() {
		opts = append(opts, entrypoint.WithoutAssets())
	}
	app, err := entrypoint.Open(ctx, cfg, log, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("Error closing resources", logger.FieldError, err)
		}
	}()

	fmt.Fprint(out, pterm.Info.Sprintfln("Starting import from: %s", exportPath))
	if mode.DryRun() {
		fmt.Fprint(out, pterm.Warning.Sprintln("Running in DRY-RUN mode. No changes will be made."))
	}

	result, err := app.Imports.Import(ctx, services.ImportRequest{
		ExportPath:   exportPath,
		ManifestPath: ic.ManifestPath,
		Mode:         mode,
		Trigger:      entities.ImportTriggerCLI,
		AssetDir:     assetDir,
		ReportPath:   ic.ReportPath,
		LogPath:      ic.LogPath,
	})
	if result != nil {
		fmt.Fprint(out, RenderSummary(result))
	}
	if err != nil {
		return err
	}
	if !result.Report.Success {
		return errors.WithDetailf(ErrImportFailed, "%d errors", len(result.Report.Errors))
	}
	return nil
}
