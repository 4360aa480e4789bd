package importers

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/mrlokans/curriculum/internal/assets"
	"github.com/mrlokans/curriculum/internal/logger"
	"github.com/mrlokans/curriculum/internal/manifest"
	"github.com/mrlokans/curriculum/internal/report"
	"github.com/mrlokans/curriculum/internal/sourceid"
)

// RootNode is the event node for run-level messages.
const RootNode = "root"

type Options struct {
	Mode    Mode
	OwnerID string
}

// Importer walks one export tree into the content store. It is single use:
// all events of a run go to its reporter.
type Importer struct {
	repo     Repository
	tree     *assets.ExportTree
	migrator *assets.Migrator
	reporter *report.Reporter
	opts     Options
	log      *logger.Logger
}

func New(repo Repository, tree *assets.ExportTree, migrator *assets.Migrator, reporter *report.Reporter, opts Options, log *logger.Logger) *Importer {
	if opts.Mode.DryRun() {
		repo = DryRunRepository{}
	}
	return &Importer{
		repo:     repo,
		tree:     tree,
		migrator: migrator,
		reporter: reporter,
		opts:     opts,
		log:      log.With(logger.FieldComponent, "importer", logger.FieldMode, opts.Mode.String()),
	}
}

// Run imports the manifest at manifestPath and returns the finalized report.
// Failures never escape as errors; they are recorded in the report.
func (imp *Importer) Run(ctx context.Context, manifestPath string) *report.Report {
	imp.reporter.Info(RootNode, "Starting StudyGo import", map[string]any{
		"path":   imp.tree.Root(),
		"dryRun": imp.opts.Mode.DryRun(),
	})
	imp.log.Info("Import started", logger.FieldPath, imp.tree.Root())

	loaded, err := manifest.Load(manifestPath)
	if err != nil {
		imp.reporter.Error(RootNode, "Fatal error: "+err.Error(), nil)
		imp.log.Error("Import aborted", logger.FieldError, err)
		return imp.reporter.Finalize()
	}

	imp.reporter.SetTotal(manifest.CountItems(loaded.Tree))

	for i, subject := range loaded.Manifest.Subjects {
		imp.visit(ctx, subject, sourceid.Scope{Parent: sourceid.Root, Index: i}, lineage{})
	}

	coverage := imp.reporter.Coverage()
	processed, total := coverage.ItemsProcessed, coverage.TotalItemsInManifest
	if processed < total {
		imp.reporter.Warn(RootNode, fmt.Sprintf("Coverage gap: processed %d/%d items.", processed, total))
	}
	imp.reporter.Info(RootNode, fmt.Sprintf("Import process finished. Processed %d/%d items.", processed, total), nil)

	rep := imp.reporter.Finalize()
	imp.log.Info("Import finished",
		"processed", processed,
		"total", total,
		"errors", len(rep.Errors),
		"warnings", len(rep.Warnings),
	)
	return rep
}

// lineage carries the persisted ids of the ancestors of a node.
type lineage struct {
	subjectID uint
	bookID    uint
	chapterID uint
	sectionID uint
}

// nodeFailure is an import failure with the exact message and metadata to report.
type nodeFailure struct {
	message  string
	metadata map[string]any
}

func (f *nodeFailure) Error() string { return f.message }

func failure(metadata map[string]any, format string, args ...any) error {
	return &nodeFailure{message: fmt.Sprintf(format, args...), metadata: metadata}
}

func (imp *Importer) visit(ctx context.Context, node manifest.Node, scope sourceid.Scope, parents lineage) {
	d, ok := kinds[node.Kind()]
	if !ok {
		imp.log.Warn("No importer for node kind", "kind", node.Kind())
		return
	}

	id := sourceid.Derive(node, scope)
	key := id.String()
	imp.reporter.Started(key, startedMessage(d, node))

	recordID, err := imp.persist(ctx, node, id, parents)
	if err != nil {
		imp.fail(key, err)
		if d.policy == FailFast {
			imp.log.Debug("Skipping subtree", logger.FieldNode, key)
			return
		}
		imp.visitChildren(ctx, node, id, parents.with(node.Kind(), 0))
		return
	}

	*d.counter(imp.reporter.Counts())++
	if countsTowardCoverage(node) {
		imp.reporter.MarkProcessed(key)
	}

	imp.visitChildren(ctx, node, id, parents.with(node.Kind(), recordID))
	imp.reporter.Completed(key)
}

func (imp *Importer) visitChildren(ctx context.Context, node manifest.Node, id sourceid.ID, parents lineage) {
	slots := make(map[string]int)
	for _, child := range childrenOf(node) {
		slot := slotOf(child)
		imp.visit(ctx, child, sourceid.Scope{Parent: id, Index: slots[slot]}, parents)
		slots[slot]++
	}
}

func (imp *Importer) fail(node string, err error) {
	var f *nodeFailure
	if errors.As(err, &f) {
		imp.reporter.Error(node, f.message, f.metadata)
		return
	}
	imp.reporter.Error(node, err.Error(), nil)
}

func (imp *Importer) persist(ctx context.Context, node manifest.Node, id sourceid.ID, parents lineage) (uint, error) {
	switch n := node.(type) {
	case manifest.Subject:
		return imp.importSubject(ctx, n, id)
	case manifest.Book:
		return imp.importBook(ctx, n, id, parents)
	case manifest.Chapter:
		return imp.importChapter(ctx, n, id, parents)
	case manifest.Section:
		return imp.importSection(ctx, n, id, parents)
	case manifest.VocabularySet:
		return imp.importVocabularySet(ctx, n, id, parents)
	case manifest.Document:
		return imp.importDocument(ctx, n, id, parents)
	case manifest.Question:
		return imp.importQuestion(ctx, n, id, parents)
	case manifest.Exam:
		return imp.importExam(ctx, n, id, parents)
	default:
		return 0, errors.Newf("unsupported node kind %q", node.Kind())
	}
}

func (l lineage) with(kind manifest.Kind, id uint) lineage {
	switch kind {
	case manifest.KindSubject:
		l.subjectID = id
	case manifest.KindBook:
		l.bookID = id
	case manifest.KindChapter:
		l.chapterID = id
	case manifest.KindSection:
		l.sectionID = id
	}
	return l
}

func childrenOf(node manifest.Node) []manifest.Node {
	switch n := node.(type) {
	case manifest.Subject:
		return n.Children()
	case manifest.Book:
		return n.Children()
	case manifest.Chapter:
		return n.Children()
	case manifest.Section:
		return n.Children()
	default:
		return nil
	}
}

// slotOf groups siblings for positional keys. Summary and theory documents
// are numbered separately.
func slotOf(node manifest.Node) string {
	if d, ok := node.(manifest.Document); ok {
		return string(d.Role)
	}
	return string(node.Kind())
}

// countsTowardCoverage mirrors manifest.CountItems: a node is processed for
// coverage only when the scan counted it.
func countsTowardCoverage(node manifest.Node) bool {
	switch n := node.(type) {
	case manifest.Subject:
		return n.Identified()
	case manifest.Book:
		return n.Identified()
	case manifest.Chapter:
		return n.Identified()
	case manifest.Section:
		return n.Identified()
	case manifest.VocabularySet:
		return true
	case manifest.Document:
		return n.Role == manifest.RoleSummary || n.Identified()
	case manifest.Question:
		return n.Identified()
	case manifest.Exam:
		return n.Identified()
	default:
		return false
	}
}

func startedMessage(d descriptor, node manifest.Node) string {
	if _, ok := node.(manifest.Question); ok {
		return d.label
	}
	return d.label + ": " + describe(node)
}

func describe(node manifest.Node) string {
	switch n := node.(type) {
	case manifest.Subject:
		return n.Title.String()
	case manifest.Book:
		return n.Title.String()
	case manifest.Chapter:
		return n.Title.String()
	case manifest.Section:
		return n.Title.String()
	case manifest.VocabularySet:
		return fmt.Sprintf("%d items", len(n.Terms))
	case manifest.Document:
		return documentTitle(n)
	case manifest.Exam:
		return n.Title.String()
	default:
		return ""
	}
}
