// Command generate_fixture writes a sample Export Contract v1 export directory.
// Usage: go run ./cmd/generate_fixture [-out ./demo/export] [-subjects 2]
package main

import (
	"flag"
	"os"

	"github.com/mrlokans/curriculum/internal/logger"
)

const defaultFixtureDir = "./demo/export"

func main() {
	out := flag.String("out", defaultFixtureDir, "directory to write the export to")
	subjects := flag.Int("subjects", 2, "number of subjects to generate")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Generating fixture export", logger.FieldPath, *out, "subjects", *subjects)

	// Start fresh so stale files from an earlier run do not leak in.
	if err := os.RemoveAll(*out); err != nil {
		log.Error("Failed to remove existing export", logger.FieldError, err)
		os.Exit(1)
	}

	stats, err := Generate(*out, *subjects)
	if err != nil {
		log.Error("Failed to generate fixture", logger.FieldError, err)
		os.Exit(1)
	}

	log.Info("Fixture export generated",
		"manifest_items", stats.ManifestItems,
		"files", stats.Files,
	)
}
