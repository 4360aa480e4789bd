// Package report aggregates run events into the end-of-run report.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

type Counts struct {
	Subjects   int `json:"subjects"`
	Books      int `json:"books"`
	Chapters   int `json:"chapters"`
	Sections   int `json:"sections"`
	Sets       int `json:"sets"`
	Flashcards int `json:"flashcards"`
	Docs       int `json:"docs"`
	Questions  int `json:"questions"`
	Quizzes    int `json:"quizzes"`
	Assets     int `json:"assets"`
}

type Coverage struct {
	TotalItemsInManifest int      `json:"total_items_in_manifest"`
	ItemsProcessed       int      `json:"items_processed"`
	UnsupportedItems     []string `json:"unsupported_items"`
}

// Percent is the processed share of the manifest, 0 when the manifest is empty.
func (c Coverage) Percent() float64 {
	if c.TotalItemsInManifest == 0 {
		return 0
	}
	return float64(c.ItemsProcessed) / float64(c.TotalItemsInManifest) * 100
}

// Report is the serialized outcome of one run.
type Report struct {
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Counts    Counts    `json:"counts"`
	Coverage  Coverage  `json:"coverage"`
	Errors    []string  `json:"errors"`
	Warnings  []string  `json:"warnings"`
}

// New returns an empty report stamped with the run start time.
func New(startedAt time.Time) *Report {
	return &Report{
		Timestamp: startedAt.UTC(),
		Coverage:  Coverage{UnsupportedItems: []string{}},
		Errors:    []string{},
		Warnings:  []string{},
	}
}

// WriteFile writes the report as indented JSON.
func (r *Report) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "create report directory %s", dir)
		}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write report %s", path)
	}
	return nil
}

// ReadFile loads a report written by WriteFile.
func ReadFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read report %s", path)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrapf(err, "decode report %s", path)
	}
	return &r, nil
}
