package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Record is a content row that is upserted on its SourceID.
type Record interface {
	TableName() string
	ConflictKey() string
	PrimaryKey() uint
}

type DocumentType string

const (
	DocumentTypeHTML     DocumentType = "html"
	DocumentTypeMarkdown DocumentType = "markdown"
)

type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   string    `gorm:"index;size:36" json:"owner_id"`
	Title     string    `gorm:"size:512" json:"title"`
	SourceID  string    `gorm:"uniqueIndex;size:512" json:"source_id"`
	Books     []Book    `gorm:"foreignKey:SubjectID" json:"books,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SubjectID uint      `gorm:"index" json:"subject_id"`
	Title     string    `gorm:"size:512" json:"title"`
	Author    string    `gorm:"size:256" json:"author,omitempty"`
	Publisher string    `gorm:"size:256" json:"publisher,omitempty"`
	SourceID  string    `gorm:"uniqueIndex;size:512" json:"source_id"`
	Chapters  []Chapter `gorm:"foreignKey:BookID" json:"chapters,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Chapter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SubjectID uint      `gorm:"index" json:"subject_id"`
	BookID    uint      `gorm:"index" json:"book_id"`
	Title     string    `gorm:"size:512" json:"title"`
	Path      string    `gorm:"size:1024" json:"path,omitempty"`
	SourceID  string    `gorm:"uniqueIndex;size:512" json:"source_id"`
	Sections  []Section `gorm:"foreignKey:ChapterID" json:"sections,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section is the leaf of the structural hierarchy; all content hangs off it.
type Section struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChapterID uint      `gorm:"index" json:"chapter_id"`
	Title     string    `gorm:"size:512" json:"title"`
	Path      string    `gorm:"size:1024" json:"path,omitempty"`
	SourceID  string    `gorm:"uniqueIndex;size:512" json:"source_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Document struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	SectionID    uint         `gorm:"index" json:"section_id"`
	OwnerID      string       `gorm:"index;size:36" json:"owner_id"`
	Title        string       `gorm:"size:512" json:"title"`
	HTMLContent  string       `gorm:"type:text" json:"html_content"`
	DocumentType DocumentType `gorm:"size:20" json:"document_type"`
	SourcePath   string       `gorm:"size:1024" json:"source_path,omitempty"`
	SourceID     string       `gorm:"uniqueIndex;size:512" json:"source_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type VocabularySet struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	SectionID  uint        `gorm:"index" json:"section_id"`
	Title      string      `gorm:"size:256" json:"title"`
	SourceID   string      `gorm:"uniqueIndex;size:512" json:"source_id"`
	Flashcards []Flashcard `gorm:"foreignKey:VocabularySetID" json:"flashcards,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type Flashcard struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	VocabularySetID uint      `gorm:"index" json:"vocabulary_set_id"`
	Term            string    `gorm:"type:text" json:"term"`
	Definition      string    `gorm:"type:text" json:"definition"`
	Position        int       `json:"position"`
	SourceID        string    `gorm:"uniqueIndex;size:512" json:"source_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type PracticeQuestion struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SectionID     uint           `gorm:"index" json:"section_id"`
	QuestionText  string         `gorm:"type:text" json:"question_text"`
	QuestionType  string         `gorm:"size:50;default:'mcq'" json:"question_type"`
	Options       datatypes.JSON `json:"options,omitempty"`
	CorrectAnswer datatypes.JSON `json:"correct_answer,omitempty"`
	CreatedBy     string         `gorm:"size:36" json:"created_by"`
	SourceID      string         `gorm:"uniqueIndex;size:512" json:"source_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Quiz stores an exam. Questions are kept as the upstream payload.
type Quiz struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	SectionID uint           `gorm:"index" json:"section_id"`
	Title     string         `gorm:"size:512" json:"title"`
	QuizType  string         `gorm:"size:20" json:"quiz_type"`
	Questions datatypes.JSON `json:"questions,omitempty"`
	SourceID  string         `gorm:"uniqueIndex;size:512" json:"source_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Subject) TableName() string          { return "subjects" }
func (Book) TableName() string             { return "books" }
func (Chapter) TableName() string          { return "chapters" }
func (Section) TableName() string          { return "sections" }
func (Document) TableName() string         { return "documents" }
func (VocabularySet) TableName() string    { return "vocabulary_sets" }
func (Flashcard) TableName() string        { return "flashcards" }
func (PracticeQuestion) TableName() string { return "practice_questions" }
func (Quiz) TableName() string             { return "quizzes" }

func (s *Subject) ConflictKey() string          { return s.SourceID }
func (b *Book) ConflictKey() string             { return b.SourceID }
func (c *Chapter) ConflictKey() string          { return c.SourceID }
func (s *Section) ConflictKey() string          { return s.SourceID }
func (d *Document) ConflictKey() string         { return d.SourceID }
func (v *VocabularySet) ConflictKey() string    { return v.SourceID }
func (f *Flashcard) ConflictKey() string        { return f.SourceID }
func (q *PracticeQuestion) ConflictKey() string { return q.SourceID }
func (q *Quiz) ConflictKey() string             { return q.SourceID }

func (s *Subject) PrimaryKey() uint          { return s.ID }
func (b *Book) PrimaryKey() uint             { return b.ID }
func (c *Chapter) PrimaryKey() uint          { return c.ID }
func (s *Section) PrimaryKey() uint          { return s.ID }
func (d *Document) PrimaryKey() uint         { return d.ID }
func (v *VocabularySet) PrimaryKey() uint    { return v.ID }
func (f *Flashcard) PrimaryKey() uint        { return f.ID }
func (q *PracticeQuestion) PrimaryKey() uint { return q.ID }
func (q *Quiz) PrimaryKey() uint             { return q.ID }

// ContentModels lists every content table for migrations.
func ContentModels() []any {
	return []any{
		&Subject{},
		&Book{},
		&Chapter{},
		&Section{},
		&Document{},
		&VocabularySet{},
		&Flashcard{},
		&PracticeQuestion{},
		&Quiz{},
	}
}

// NewRecord returns an empty model for a content table name.
func NewRecord(table string) (Record, bool) {
	for _, model := range ContentModels() {
		if record := model.(Record); record.TableName() == table {
			return record, true
		}
	}
	return nil, false
}
