package importers

import (
	"bytes"
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/mrlokans/curriculum/internal/entities"
	"github.com/mrlokans/curriculum/internal/manifest"
	"github.com/mrlokans/curriculum/internal/sourceid"
)

const (
	defaultSetTitle     = "Vocabulary"
	defaultSummaryTitle = "Summary"
	defaultTheoryTitle  = "Theory"
	defaultQuestionType = "mcq"
	quizTypeExam        = "exam"
)

// importVocabularySet stores the set, then all of its flashcards in one transaction.
func (imp *Importer) importVocabularySet(ctx context.Context, set manifest.VocabularySet, id sourceid.ID, parents lineage) (uint, error) {
	setID, err := imp.repo.Upsert(ctx, &entities.VocabularySet{
		SectionID: parents.sectionID,
		Title:     defaultSetTitle,
		SourceID:  id.String(),
	})
	if err != nil {
		return 0, err
	}

	cards := make([]entities.Record, len(set.Terms))
	for i, t := range set.Terms {
		cards[i] = &entities.Flashcard{
			VocabularySetID: setID,
			Term:            firstNonEmpty(t.Term, t.Question),
			Definition:      firstNonEmpty(t.Definition, t.Answer),
			Position:        i,
			SourceID:        sourceid.Flashcard(t, sourceid.Scope{Parent: id, Index: i}).String(),
		}
	}
	if _, err := imp.repo.UpsertAll(ctx, cards); err != nil {
		return 0, failure(nil, "Items: %s", err.Error())
	}

	imp.reporter.Counts().Flashcards += len(set.Terms)
	for i, t := range set.Terms {
		if t.Identified() {
			imp.reporter.MarkProcessed(cards[i].ConflictKey())
		}
	}
	return setID, nil
}

func (imp *Importer) importDocument(ctx context.Context, doc manifest.Document, id sourceid.ID, parents lineage) (uint, error) {
	sourcePath := doc.SourcePath.String()
	if sourcePath != "" {
		full, err := imp.tree.Resolve(sourcePath)
		if err != nil {
			return 0, failure(map[string]any{"relativePath": sourcePath}, "File outside export: %s", sourcePath)
		}
		if !imp.tree.Exists(full) {
			return 0, failure(map[string]any{"relativePath": sourcePath}, "File missing: %s", full)
		}
	}

	body, isHTML := doc.Body()
	rewritten := imp.migrator.Rewrite(ctx, id.String(), body, sourcePath)
	imp.reporter.Counts().Assets += rewritten.Copied

	docType := entities.DocumentTypeMarkdown
	if isHTML {
		docType = entities.DocumentTypeHTML
	}

	return imp.repo.Upsert(ctx, &entities.Document{
		SectionID:    parents.sectionID,
		OwnerID:      imp.opts.OwnerID,
		Title:        documentTitle(doc),
		HTMLContent:  rewritten.Content,
		DocumentType: docType,
		SourcePath:   sourcePath,
		SourceID:     id.String(),
	})
}

func (imp *Importer) importQuestion(ctx context.Context, q manifest.Question, id sourceid.ID, parents lineage) (uint, error) {
	return imp.repo.Upsert(ctx, &entities.PracticeQuestion{
		SectionID:     parents.sectionID,
		QuestionText:  firstNonEmpty(q.Prompt, q.Question),
		QuestionType:  firstNonEmpty(q.Type, defaultQuestionType),
		Options:       jsonColumn(q.Options),
		CorrectAnswer: jsonColumn(q.CorrectAnswer),
		CreatedBy:     imp.opts.OwnerID,
		SourceID:      id.String(),
	})
}

func (imp *Importer) importExam(ctx context.Context, e manifest.Exam, id sourceid.ID, parents lineage) (uint, error) {
	return imp.repo.Upsert(ctx, &entities.Quiz{
		SectionID: parents.sectionID,
		Title:     e.Title.String(),
		QuizType:  quizTypeExam,
		Questions: jsonColumn(e.Questions),
		SourceID:  id.String(),
	})
}

// documentTitle is the explicit title, else the theory hash, else the source
// path, else a default by role.
func documentTitle(doc manifest.Document) string {
	if title, ok := manifest.FirstTruthy(manifest.NewKey(doc.Title.String()), doc.TheoryHash, manifest.NewKey(doc.SourcePath.String())); ok {
		return title
	}
	if doc.Role == manifest.RoleSummary {
		return defaultSummaryTitle
	}
	return defaultTheoryTitle
}

// jsonColumn keeps a raw payload as-is. Missing and null payloads are stored as NULL.
func jsonColumn(raw json.RawMessage) datatypes.JSON {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return datatypes.JSON(trimmed)
}

func firstNonEmpty(values ...manifest.Text) string {
	for _, v := range values {
		if v != "" {
			return v.String()
		}
	}
	return ""
}
