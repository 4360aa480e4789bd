// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - importers.Repository: SourceId-keyed upserts (internal/importers/repository.go)
//   - services.RunStore: Import run history writes (internal/services/interfaces.go)
//   - http.RunReader / http.RunStore: Run history for the API (internal/http/stores.go)
//   - tasks.RunCleaner: Retention cleanup of stored runs (internal/tasks/cleanup_runs.go)
//
// ## Assets and Events
//
//   - assets.Store: Destination for migrated assets, local disk or Cloud Storage (internal/assets/store.go)
//   - assets.Logger: Per-reference migrator events (internal/assets/migrator.go)
//   - runlog.Sink: Append-only run event log (internal/runlog/runlog.go)
//
// ## Background Work
//
//   - tasks.Importer: Runs one import for a queued task (internal/tasks/import_export.go)
//   - http.TaskQueue / scheduler.Enqueuer: Enqueue tasks and read their status
//
// # Adding a New Content Kind
//
//  1. Add the manifest node in internal/manifest/nodes.go with a Kind and
//     return it from the parent's Children.
//  2. Add the model in internal/entities/content.go implementing entities.Record
//     and list it in ContentModels.
//  3. Register a descriptor in internal/importers/kinds.go (label, failure
//     policy, counter) and handle the node in the walker's persist switch.
//  4. If the kind is a manifest item, make sure internal/manifest/coverage.go
//     counts it exactly when the walker marks it processed.
//
// # Compile-Time Checks
//
// See checks.go for the implementation checks of every interface above.
package interfaces
