// Package database provides the content store for imported curriculum.
//
// # Architecture
//
//	database/
//	├── database.go   # Driver selection (sqlite, postgres) and migrations
//	├── content/      # Idempotent upserts keyed on source_id
//	└── runs/         # Stored import runs and their reports
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(cfg.Database, log)
//
//	contentRepo := content.NewRepository(db.DB)
//	runsRepo := runs.NewRepository(db.DB)
//
//	id, err := contentRepo.Upsert(ctx, &entities.Subject{Title: "Biology", SourceID: "studygo:subject:1"})
//
// # Interface Implementations
//
//   - content.Repository: implements importers.Repository
//   - runs.Repository: implements services.RunStore and http.RunReader
package database
