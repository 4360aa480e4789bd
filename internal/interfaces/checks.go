package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/curriculum/internal/assets"
	"github.com/mrlokans/curriculum/internal/database/content"
	"github.com/mrlokans/curriculum/internal/database/runs"
	"github.com/mrlokans/curriculum/internal/http"
	"github.com/mrlokans/curriculum/internal/importers"
	"github.com/mrlokans/curriculum/internal/report"
	"github.com/mrlokans/curriculum/internal/runlog"
	"github.com/mrlokans/curriculum/internal/scheduler"
	"github.com/mrlokans/curriculum/internal/services"
	"github.com/mrlokans/curriculum/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Content store implementations
var _ importers.Repository = (*content.Repository)(nil)
var _ importers.Repository = importers.DryRunRepository{}
var _ http.ContentReader = (*content.Repository)(nil)

// Run history implementations
var _ services.RunStore = (*runs.Repository)(nil)
var _ http.RunStore = (*runs.Repository)(nil)
var _ tasks.RunCleaner = (*runs.Repository)(nil)

// =============================================================================
// Assets and Events
// =============================================================================

// Asset store implementations
var _ assets.Store = (*assets.LocalStore)(nil)
var _ assets.Store = (*assets.GCSStore)(nil)
var _ assets.Store = assets.NopStore{}

// Event sinks
var _ runlog.Sink = (*runlog.JSONLSink)(nil)
var _ runlog.Sink = (*runlog.MemorySink)(nil)
var _ runlog.Sink = runlog.Tee{}

// The reporter receives migrator events
var _ assets.Logger = (*report.Reporter)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.Importer = (*services.ImportService)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ http.SyncScheduler = (*scheduler.ImportSyncScheduler)(nil)
