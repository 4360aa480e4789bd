package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coverageFixture = `{
  "subjects": [{
    "subjectId": "bio",
    "title": "Biology",
    "books": [{
      "bookId": 42,
      "title": "Biology for Today",
      "chapters": [{
        "chapterIdOrIdx": 1,
        "title": "Cells",
        "sections": [{
          "sectionIdOrIdx": "1.1",
          "title": "The cell",
          "content": {
            "terms": [
              {"term": "cell", "definition": "unit of life"},
              {"term": "nucleus", "definition": "control centre"},
              {"term": "membrane", "definition": "boundary"}
            ],
            "summary": {"html": "<p>Cells are small.</p>"}
          }
        }]
      }]
    }]
  }]
}`

func TestParse_TypedTree(t *testing.T) {
	loaded, err := Parse("fixture.json", []byte(coverageFixture))
	require.NoError(t, err)

	require.Len(t, loaded.Manifest.Subjects, 1)
	subject := loaded.Manifest.Subjects[0]
	assert.Equal(t, "bio", subject.SubjectID.String())
	assert.True(t, subject.Identified())

	book := subject.Books[0]
	assert.Equal(t, "42", book.BookID.String())

	section := book.Chapters[0].Sections[0]
	require.NotNil(t, section.Content)
	assert.True(t, section.Content.HasTerms)
	assert.Len(t, section.Content.Terms, 3)
	require.NotNil(t, section.Content.Summary)
	assert.Equal(t, RoleSummary, section.Content.Summary.Role)

	children := section.Children()
	require.Len(t, children, 2)
	assert.Equal(t, KindVocabularySet, children[0].Kind())
	assert.Equal(t, KindDocument, children[1].Kind())
}

func TestCountItems_StructuralTermsAndSummary(t *testing.T) {
	loaded, err := Parse("fixture.json", []byte(coverageFixture))
	require.NoError(t, err)

	// 4 structural nodes + 1 terms array + 1 summary; individual terms are not counted.
	assert.Equal(t, 6, CountItems(loaded.Tree))
}

func TestCountItems_FalsyIdentifiersAreNotCounted(t *testing.T) {
	loaded, err := Parse("fixture.json", []byte(`{"subjects":[
		{"subjectId": 0, "title": "zero"},
		{"subjectId": "", "title": "empty"},
		{"subjectId": null, "title": "null"},
		{"subjectId": "s1", "title": "real"}
	]}`))
	require.NoError(t, err)

	assert.Equal(t, 1, CountItems(loaded.Tree))
	assert.False(t, loaded.Manifest.Subjects[0].Identified())
	assert.True(t, loaded.Manifest.Subjects[3].Identified())
}

func TestCountItems_SummaryKeyAtAnyDepth(t *testing.T) {
	loaded, err := Parse("fixture.json", []byte(`{"subjects":[],"meta":{"summary":{"note":"not a section"}}}`))
	require.NoError(t, err)

	assert.Equal(t, 1, CountItems(loaded.Tree))
}

func TestCountItems_EmptyTermsArrayStillCounts(t *testing.T) {
	assert.Equal(t, 1, CountItems(map[string]any{"terms": []any{}}))
}

func TestContent_UnsupportedKeys(t *testing.T) {
	loaded, err := Parse("fixture.json", []byte(`{"subjects":[{"subjectId":"s","books":[{"bookId":"b","chapters":[{"chapterIdOrIdx":"c","sections":[
		{"sectionIdOrIdx":"x","content":{"videos":[1],"summary":"plain text","mindmap":{},"theory":null}}
	]}]}]}]}`))
	require.NoError(t, err)

	content := loaded.Manifest.Subjects[0].Books[0].Chapters[0].Sections[0].Content
	require.NotNil(t, content)
	assert.Equal(t, []string{"mindmap", "summary", "videos"}, content.Unsupported)
	assert.Nil(t, content.Summary)
	assert.Empty(t, content.Theory)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "export_manifest.json"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrManifestNotFound))
	assert.Contains(t, err.Error(), "Manifest not found")
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export_manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"subjects": [`), 0644))

	_, err := Load(path)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrManifestParse))
	assert.False(t, errors.Is(err, ErrManifestNotFound))
}

func TestKey_Truthiness(t *testing.T) {
	tests := []struct {
		raw    string
		text   string
		truthy bool
	}{
		{`"abc"`, "abc", true},
		{`""`, "", false},
		{`7`, "7", true},
		{`0`, "0", false},
		{`null`, "", false},
		{`true`, "true", true},
		{`false`, "false", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var k Key
			require.NoError(t, k.UnmarshalJSON([]byte(tt.raw)))
			assert.Equal(t, tt.text, k.String())
			assert.Equal(t, tt.truthy, k.Truthy())
		})
	}
}

func TestFirstTruthy(t *testing.T) {
	got, ok := FirstTruthy(Key{}, NewKey(""), NewKey("chapters/1"), NewKey("3"))
	assert.True(t, ok)
	assert.Equal(t, "chapters/1", got)

	_, ok = FirstTruthy(Key{}, NewKey(""))
	assert.False(t, ok)
}

func TestKey_NumbersAreNormalized(t *testing.T) {
	tests := map[string]string{
		`1.0`:   "1",
		`1e3`:   "1000",
		`-0.0`:  "0",
		`2.50`:  "2.5",
		`"1.0"`: "1.0",
	}
	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			var k Key
			require.NoError(t, k.UnmarshalJSON([]byte(raw)))
			assert.Equal(t, want, k.String())
		})
	}
}

func TestText_AcceptsScalars(t *testing.T) {
	tests := map[string]Text{
		`"plain"`: "plain",
		`4`:       "4",
		`1e2`:     "100",
		`true`:    "true",
		`null`:    "",
		`[1, 2]`:  "[1,2]",
	}
	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			var text Text
			require.NoError(t, text.UnmarshalJSON([]byte(raw)))
			assert.Equal(t, want, text)
		})
	}
}

func TestContent_MalformedKeyIsDropped(t *testing.T) {
	loaded, err := Parse("fixture.json", []byte(`{"subjects":[{"subjectId":"s","books":[{"bookId":"b","chapters":[{"chapterIdOrIdx":"c","sections":[
		{"sectionIdOrIdx":"x","content":{"terms":[4],"summary":{"html":"<p>ok</p>"}}}
	]}]}]}]}`))
	require.NoError(t, err)

	content := loaded.Manifest.Subjects[0].Books[0].Chapters[0].Sections[0].Content
	require.NotNil(t, content)
	require.Len(t, content.Malformed, 1)
	assert.Equal(t, "terms", content.Malformed[0].Key)
	assert.Error(t, content.Malformed[0].Err)
	assert.False(t, content.HasTerms)
	assert.Empty(t, content.Terms)
	require.NotNil(t, content.Summary)
}

func TestParse_ShapeMismatchIsNotReportedAsInvalidJSON(t *testing.T) {
	_, err := Parse("fixture.json", []byte(`{"subjects":"none"}`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrManifestParse))
	assert.Contains(t, err.Error(), "does not follow Export Contract v1")
}
