package report

import (
	"fmt"
	"time"

	"github.com/mrlokans/curriculum/internal/runlog"
)

// Reporter is the single writer of a run: it appends every event to the sink
// and folds error and warning events into the report.
type Reporter struct {
	sink   runlog.Sink
	now    func() time.Time
	report *Report

	seenErrors   map[string]struct{}
	seenWarnings map[string]struct{}
	processed    map[string]struct{}
	unsupported  map[string]struct{}

	sinkErr   error
	finalized bool
}

func NewReporter(sink runlog.Sink, now func() time.Time) *Reporter {
	if now == nil {
		now = time.Now
	}
	return &Reporter{
		sink:         sink,
		now:          now,
		report:       New(now()),
		seenErrors:   make(map[string]struct{}),
		seenWarnings: make(map[string]struct{}),
		processed:    make(map[string]struct{}),
		unsupported:  make(map[string]struct{}),
	}
}

// Log records one event. The report entry for errors and warnings is
// "[node] message", deduplicated by exact string.
func (r *Reporter) Log(node string, status runlog.Status, message string, metadata map[string]any) {
	event := runlog.Event{
		Timestamp: r.now().UTC(),
		Node:      node,
		Status:    status,
		Message:   message,
		Metadata:  metadata,
	}
	if err := r.sink.Append(event); err != nil && r.sinkErr == nil {
		r.sinkErr = err
	}

	entry := fmt.Sprintf("[%s] %s", node, message)
	switch status {
	case runlog.StatusError:
		if _, ok := r.seenErrors[entry]; !ok {
			r.seenErrors[entry] = struct{}{}
			r.report.Errors = append(r.report.Errors, entry)
		}
	case runlog.StatusWarn:
		if _, ok := r.seenWarnings[entry]; !ok {
			r.seenWarnings[entry] = struct{}{}
			r.report.Warnings = append(r.report.Warnings, entry)
		}
	}
}

func (r *Reporter) Started(node, message string) {
	r.Log(node, runlog.StatusStarted, message, nil)
}

func (r *Reporter) Completed(node string) {
	r.Log(node, runlog.StatusCompleted, "Success", nil)
}

func (r *Reporter) Error(node, message string, metadata map[string]any) {
	r.Log(node, runlog.StatusError, message, metadata)
}

func (r *Reporter) Warn(node, message string) {
	r.Log(node, runlog.StatusWarn, message, nil)
}

func (r *Reporter) Info(node, message string, metadata map[string]any) {
	r.Log(node, runlog.StatusInfo, message, metadata)
}

// Counts exposes the per-kind counters for importers to increment.
func (r *Reporter) Counts() *Counts {
	return &r.report.Counts
}

// SetTotal seeds the coverage denominator from the pre-run scan.
func (r *Reporter) SetTotal(total int) {
	r.report.Coverage.TotalItemsInManifest = total
}

// MarkProcessed counts a SourceId toward coverage at most once.
func (r *Reporter) MarkProcessed(sourceID string) {
	if _, ok := r.processed[sourceID]; ok {
		return
	}
	r.processed[sourceID] = struct{}{}
	r.report.Coverage.ItemsProcessed++
}

// Coverage returns the coverage so far.
func (r *Reporter) Coverage() Coverage {
	return r.report.Coverage
}

// Unsupported records a manifest entry the importer does not map.
func (r *Reporter) Unsupported(item string) {
	if _, ok := r.unsupported[item]; ok {
		return
	}
	r.unsupported[item] = struct{}{}
	r.report.Coverage.UnsupportedItems = append(r.report.Coverage.UnsupportedItems, item)
}

// Finalize sets the success flag and returns the report. Later calls return
// the same report unchanged.
func (r *Reporter) Finalize() *Report {
	if !r.finalized {
		r.report.Success = len(r.report.Errors) == 0
		r.finalized = true
	}
	return r.report
}

// SinkErr returns the first error the sink reported, if any.
func (r *Reporter) SinkErr() error {
	return r.sinkErr
}
