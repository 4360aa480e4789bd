package importers

import (
	"context"

	"github.com/mrlokans/curriculum/internal/entities"
	"github.com/mrlokans/curriculum/internal/manifest"
	"github.com/mrlokans/curriculum/internal/sourceid"
)

func (imp *Importer) importSubject(ctx context.Context, s manifest.Subject, id sourceid.ID) (uint, error) {
	return imp.repo.Upsert(ctx, &entities.Subject{
		OwnerID:  imp.opts.OwnerID,
		Title:    s.Title.String(),
		SourceID: id.String(),
	})
}

func (imp *Importer) importBook(ctx context.Context, b manifest.Book, id sourceid.ID, parents lineage) (uint, error) {
	return imp.repo.Upsert(ctx, &entities.Book{
		SubjectID: parents.subjectID,
		Title:     b.Title.String(),
		Author:    b.Author.String(),
		Publisher: b.Publisher.String(),
		SourceID:  id.String(),
	})
}

func (imp *Importer) importChapter(ctx context.Context, c manifest.Chapter, id sourceid.ID, parents lineage) (uint, error) {
	return imp.repo.Upsert(ctx, &entities.Chapter{
		SubjectID: parents.subjectID,
		BookID:    parents.bookID,
		Title:     c.Title.String(),
		Path:      c.Path.String(),
		SourceID:  id.String(),
	})
}

func (imp *Importer) importSection(ctx context.Context, s manifest.Section, id sourceid.ID, parents lineage) (uint, error) {
	recordID, err := imp.repo.Upsert(ctx, &entities.Section{
		ChapterID: parents.chapterID,
		Title:     s.Title.String(),
		Path:      s.Path.String(),
		SourceID:  id.String(),
	})
	if err != nil {
		return 0, err
	}

	if s.Content != nil {
		for _, key := range s.Content.Unsupported {
			imp.reporter.Unsupported(id.String() + "#content." + key)
			imp.reporter.Info(id.String(), "Unsupported content: "+key, nil)
		}
		for _, bad := range s.Content.Malformed {
			imp.reporter.Error(id.String()+"#content."+bad.Key, "Malformed content: "+bad.Err.Error(), nil)
		}
	}
	return recordID, nil
}
