package content

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/curriculum/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "content.db")), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(entities.ContentModels()...)
	require.NoError(t, err)

	return db
}

func TestRepository_Upsert_InsertsThenUpdates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	id, err := repo.Upsert(ctx, &entities.Subject{Title: "Biology", SourceID: "studygo:subject:1"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	again, err := repo.Upsert(ctx, &entities.Subject{Title: "Biology 2nd ed.", SourceID: "studygo:subject:1"})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	var subjects []entities.Subject
	require.NoError(t, db.Find(&subjects).Error)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Biology 2nd ed.", subjects[0].Title)
}

func TestRepository_Upsert_DistinctSourceIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, &entities.Book{Title: "A", SourceID: "studygo:book:1"})
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, &entities.Book{Title: "B", SourceID: "studygo:book:2"})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRepository_Upsert_UpdatesJSONColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &entities.Quiz{Title: "Exam", QuizType: "exam", SourceID: "studygo:quiz:e1"})
	require.NoError(t, err)

	id, err := repo.Upsert(ctx, &entities.Quiz{
		Title:     "Exam (revised)",
		QuizType:  "exam",
		Questions: datatypes.JSON(`[{"q":"1+1"}]`),
		SourceID:  "studygo:quiz:e1",
	})
	require.NoError(t, err)

	var stored entities.Quiz
	require.NoError(t, repo.FindBySourceID(ctx, &stored, "studygo:quiz:e1"))
	assert.Equal(t, id, stored.ID)
	assert.Equal(t, "Exam (revised)", stored.Title)
	assert.JSONEq(t, `[{"q":"1+1"}]`, string(stored.Questions))
}

func TestRepository_Upsert_RequiresSourceID(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	_, err := repo.Upsert(context.Background(), &entities.Section{Title: "No key"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSourceID))
}

func TestRepository_UpsertAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	cards := []entities.Record{
		&entities.Flashcard{VocabularySetID: 1, Term: "cell", Definition: "unit of life", SourceID: "studygo:flashcard:t1"},
		&entities.Flashcard{VocabularySetID: 1, Term: "atom", Definition: "unit of matter", SourceID: "studygo:flashcard:t2"},
	}
	ids, err := repo.UpsertAll(ctx, cards)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	t.Run("rolls back on failure", func(t *testing.T) {
		batch := []entities.Record{
			&entities.Flashcard{VocabularySetID: 1, Term: "new", SourceID: "studygo:flashcard:t3"},
			&entities.Flashcard{VocabularySetID: 1, Term: "broken"},
		}
		_, err := repo.UpsertAll(ctx, batch)
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&entities.Flashcard{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})
}

func TestRepository_FindBySourceIDAndCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &entities.Document{Title: "Summary", DocumentType: entities.DocumentTypeHTML, SourceID: "studygo:doc:d1"})
	require.NoError(t, err)

	var doc entities.Document
	require.NoError(t, repo.FindBySourceID(ctx, &doc, "studygo:doc:d1"))
	assert.Equal(t, "Summary", doc.Title)

	counts, err := repo.CountByTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["documents"])
	assert.Equal(t, int64(0), counts["subjects"])
}
