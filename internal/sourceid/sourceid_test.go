package sourceid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/curriculum/internal/manifest"
)

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestDerive_StructuralKeys(t *testing.T) {
	subject := decode[manifest.Subject](t, `{"subjectId":"bio"}`)
	book := decode[manifest.Book](t, `{"bookId":12}`)
	chapterWithPath := decode[manifest.Chapter](t, `{"chapterIdOrIdx":1,"path":"chapters/1"}`)
	chapterWithIdx := decode[manifest.Chapter](t, `{"chapterIdOrIdx":3}`)
	section := decode[manifest.Section](t, `{"sectionIdOrIdx":"1.2"}`)

	assert.Equal(t, ID("studygo:subject:bio"), Derive(subject, Scope{Parent: Root}))
	assert.Equal(t, ID("studygo:book:12"), Derive(book, Scope{}))
	assert.Equal(t, ID("studygo:chapter:chapters/1"), Derive(chapterWithPath, Scope{}))
	assert.Equal(t, ID("studygo:chapter:3"), Derive(chapterWithIdx, Scope{}))
	assert.Equal(t, ID("studygo:section:1.2"), Derive(section, Scope{}))
}

func TestDerive_IsDeterministic(t *testing.T) {
	doc := decode[manifest.Document](t, `{"html":"<p>same body</p>"}`)
	scope := Scope{Parent: "studygo:section:1.1", Index: 0}

	first := Derive(doc, scope)
	second := Derive(doc, scope)

	assert.Equal(t, first, second)
	assert.Contains(t, first.String(), "studygo:doc:sha256-")
}

func TestDerive_PositionalFallbacks(t *testing.T) {
	parent := ID("studygo:section:1.1")

	subject := decode[manifest.Subject](t, `{"title":"no id"}`)
	assert.Equal(t, ID("studygo:subject:root_subject2"), Derive(subject, Scope{Parent: Root, Index: 2}))

	summary := manifest.Document{Role: manifest.RoleSummary}
	assert.Equal(t, ID("studygo:doc:1.1_summary0"), Derive(summary, Scope{Parent: parent}))

	question := decode[manifest.Question](t, `{"prompt":"why?"}`)
	assert.Equal(t, ID("studygo:question:1.1_question4"), Derive(question, Scope{Parent: parent, Index: 4}))

	exam := decode[manifest.Exam](t, `{"examIdOrKey":"final"}`)
	assert.Equal(t, ID("studygo:quiz:final"), Derive(exam, Scope{Parent: parent}))
}

func TestDerive_DocumentPrecedence(t *testing.T) {
	withID := decode[manifest.Document](t, `{"id":"d1","theoryHash":"h","sourcePath":"a.json"}`)
	withHash := decode[manifest.Document](t, `{"theoryHash":"h","sourcePath":"a.json"}`)
	withPath := decode[manifest.Document](t, `{"sourcePath":"a.json"}`)

	assert.Equal(t, ID("studygo:doc:d1"), Derive(withID, Scope{}))
	assert.Equal(t, ID("studygo:doc:h"), Derive(withHash, Scope{}))
	assert.Equal(t, ID("studygo:doc:a.json"), Derive(withPath, Scope{}))
}

func TestVocabularySetAndFlashcards(t *testing.T) {
	set := VocabularySet("studygo:section:chapters/1/1")
	assert.Equal(t, ID("studygo:leerset:terms_chapters/1/1"), set)

	withID := decode[manifest.Term](t, `{"id":"t-9","term":"x"}`)
	withoutID := decode[manifest.Term](t, `{"term":"y"}`)

	assert.Equal(t, ID("studygo:flashcard:t-9"), Flashcard(withID, Scope{Parent: set, Index: 0}))
	assert.Equal(t, ID("studygo:flashcard:studygo:leerset:terms_chapters/1/1_1"), Flashcard(withoutID, Scope{Parent: set, Index: 1}))
	assert.NotEqual(t, Flashcard(withoutID, Scope{Parent: set, Index: 1}), Flashcard(withoutID, Scope{Parent: set, Index: 2}))
}

func TestNaturalKey(t *testing.T) {
	assert.Equal(t, "chapters/1:extra", ID("studygo:chapter:chapters/1:extra").NaturalKey())
	assert.Equal(t, "root", Root.NaturalKey())
}
