// Package importers materializes an Export Contract v1 tree into the content store.
//
// # Architecture
//
// One run is a single sequential, depth-first walk:
//
//	Manifest → Coverage scan → Subject → Book → Chapter → Section → {Terms, Summary, Theory, Questions, Exams}
//
// Every node gets a deterministic SourceId (see package sourceid) and is
// upserted on it, so re-running an import against an unchanged export
// creates no duplicates.
//
// # Failure Policy
//
// How the walker reacts to a failed node is a property of its kind (kinds.go):
//
//   - FailFast (subject, book, chapter, section): the node's subtree is skipped.
//   - FailSoft (vocabulary set, document, question, quiz): the failure is
//     recorded and the next sibling runs.
//
// Nothing escapes Run as an error. Every failure becomes an error event on
// the failing node and a deduplicated entry in the report.
//
// # Modes
//
// ModeDryRun and ModeCommit share all control flow. In dry-run the
// DryRunRepository replaces the content store and every record gets
// DryRunID; the caller passes an asset store that copies nothing.
//
// # Example Usage
//
//	reporter := report.NewReporter(sink, time.Now)
//	migrator := assets.NewMigrator(tree, store, assetDir, publicPrefix, reporter)
//	imp := importers.New(repo, tree, migrator, reporter, importers.Options{Mode: mode}, log)
//	rep := imp.Run(ctx, manifestPath)
package importers
