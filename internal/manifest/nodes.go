package manifest

import (
	"encoding/json"
	"sort"
)

// Kind tags every manifest node and doubles as the kind segment of a SourceId.
type Kind string

const (
	KindSubject       Kind = "subject"
	KindBook          Kind = "book"
	KindChapter       Kind = "chapter"
	KindSection       Kind = "section"
	KindVocabularySet Kind = "leerset"
	KindFlashcard     Kind = "flashcard"
	KindDocument      Kind = "doc"
	KindQuestion      Kind = "question"
	KindQuiz          Kind = "quiz"
)

// Node is one entry of the export tree. The concrete type is selected by Kind.
type Node interface {
	Kind() Kind
}

// Identifiers holds every field the coverage scan treats as identifying.
// It is embedded in each node so the importer applies the same rule.
type Identifiers struct {
	SubjectID      Key `json:"subjectId"`
	BookID         Key `json:"bookId"`
	ChapterIDOrIdx Key `json:"chapterIdOrIdx"`
	SectionIDOrIdx Key `json:"sectionIdOrIdx"`
	ID             Key `json:"id"`
	TheoryHash     Key `json:"theoryHash"`
}

// Identified reports whether the coverage scan counts this node.
func (i Identifiers) Identified() bool {
	return i.SubjectID.Truthy() || i.BookID.Truthy() || i.ChapterIDOrIdx.Truthy() ||
		i.SectionIDOrIdx.Truthy() || i.ID.Truthy() || i.TheoryHash.Truthy()
}

// Manifest is the root of an Export Contract v1 file.
type Manifest struct {
	Subjects []Subject `json:"subjects"`
}

type Subject struct {
	Identifiers
	Title Text   `json:"title"`
	Books []Book `json:"books"`
}

type Book struct {
	Identifiers
	Title     Text      `json:"title"`
	Author    Text      `json:"author"`
	Publisher Text      `json:"publisher"`
	Chapters  []Chapter `json:"chapters"`
}

type Chapter struct {
	Identifiers
	Path     Key       `json:"path"`
	Title    Text      `json:"title"`
	Sections []Section `json:"sections"`
}

type Section struct {
	Identifiers
	Path    Key      `json:"path"`
	Title   Text     `json:"title"`
	Content *Content `json:"content"`
}

// DocumentRole distinguishes the section summary from theory pages.
type DocumentRole string

const (
	RoleSummary DocumentRole = "summary"
	RoleTheory  DocumentRole = "theory"
)

type Document struct {
	Identifiers
	Title      Text `json:"title"`
	SourcePath Text `json:"sourcePath"`
	HTML       Text `json:"html"`
	Markdown   Text `json:"markdown"`

	Role DocumentRole `json:"-"`
}

// Body returns the rich content and whether it is HTML.
func (d Document) Body() (string, bool) {
	if d.HTML != "" {
		return d.HTML.String(), true
	}
	return d.Markdown.String(), false
}

type Term struct {
	Identifiers
	Term       Text `json:"term"`
	Definition Text `json:"definition"`
	Question   Text `json:"question"`
	Answer     Text `json:"answer"`
}

// VocabularySet wraps a section's terms array. It has no JSON form of its own.
type VocabularySet struct {
	Terms []Term
}

type Question struct {
	Identifiers
	QuestionPath  Text            `json:"questionPath"`
	Prompt        Text            `json:"prompt"`
	Question      Text            `json:"question"`
	Type          Text            `json:"type"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
}

type Exam struct {
	Identifiers
	ExamIDOrKey Key             `json:"examIdOrKey"`
	Path        Key             `json:"path"`
	Title       Text            `json:"title"`
	Questions   json.RawMessage `json:"questions"`
}

func (Subject) Kind() Kind       { return KindSubject }
func (Book) Kind() Kind          { return KindBook }
func (Chapter) Kind() Kind       { return KindChapter }
func (Section) Kind() Kind       { return KindSection }
func (Document) Kind() Kind      { return KindDocument }
func (VocabularySet) Kind() Kind { return KindVocabularySet }
func (Term) Kind() Kind          { return KindFlashcard }
func (Question) Kind() Kind      { return KindQuestion }
func (Exam) Kind() Kind          { return KindQuiz }

// Content is the payload of a section. Keys outside the contract are kept in
// Unsupported, sorted, so they can be reported. Contract keys whose payload
// does not decode land in Malformed and are dropped from the section.
type Content struct {
	Terms       []Term
	HasTerms    bool
	Summary     *Document
	Theory      []Document
	Questions   []Question
	Exams       []Exam
	Unsupported []string
	Malformed   []MalformedContent
}

// MalformedContent is a contract key of a section whose payload could not be decoded.
type MalformedContent struct {
	Key string
	Err error
}

func (c *Content) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*c = Content{}
	for key, raw := range fields {
		if isNull(raw) {
			continue
		}
		var err error
		switch key {
		case "terms":
			if !isArray(raw) {
				c.Unsupported = append(c.Unsupported, key)
				continue
			}
			c.HasTerms = true
			err = json.Unmarshal(raw, &c.Terms)
		case "summary":
			if !isObject(raw) {
				c.Unsupported = append(c.Unsupported, key)
				continue
			}
			var doc Document
			err = json.Unmarshal(raw, &doc)
			doc.Role = RoleSummary
			c.Summary = &doc
		case "theory":
			if !isArray(raw) {
				c.Unsupported = append(c.Unsupported, key)
				continue
			}
			err = json.Unmarshal(raw, &c.Theory)
			for i := range c.Theory {
				c.Theory[i].Role = RoleTheory
			}
		case "questions":
			if !isArray(raw) {
				c.Unsupported = append(c.Unsupported, key)
				continue
			}
			err = json.Unmarshal(raw, &c.Questions)
		case "exams":
			if !isArray(raw) {
				c.Unsupported = append(c.Unsupported, key)
				continue
			}
			err = json.Unmarshal(raw, &c.Exams)
		default:
			c.Unsupported = append(c.Unsupported, key)
		}
		if err != nil {
			c.drop(key)
			c.Malformed = append(c.Malformed, MalformedContent{Key: key, Err: err})
		}
	}
	sort.Strings(c.Unsupported)
	sort.Slice(c.Malformed, func(i, j int) bool { return c.Malformed[i].Key < c.Malformed[j].Key })
	return nil
}

// drop forgets whatever a failed decode of key left behind.
func (c *Content) drop(key string) {
	switch key {
	case "terms":
		c.Terms, c.HasTerms = nil, false
	case "summary":
		c.Summary = nil
	case "theory":
		c.Theory = nil
	case "questions":
		c.Questions = nil
	case "exams":
		c.Exams = nil
	}
}

// Children returns the section's content nodes in import order:
// vocabulary, summary, theory, questions, exams.
func (s Section) Children() []Node {
	if s.Content == nil {
		return nil
	}
	c := s.Content
	var nodes []Node
	if c.HasTerms {
		nodes = append(nodes, VocabularySet{Terms: c.Terms})
	}
	if c.Summary != nil {
		nodes = append(nodes, *c.Summary)
	}
	for _, d := range c.Theory {
		nodes = append(nodes, d)
	}
	for _, q := range c.Questions {
		nodes = append(nodes, q)
	}
	for _, e := range c.Exams {
		nodes = append(nodes, e)
	}
	return nodes
}

func (s Subject) Children() []Node {
	nodes := make([]Node, len(s.Books))
	for i, b := range s.Books {
		nodes[i] = b
	}
	return nodes
}

func (b Book) Children() []Node {
	nodes := make([]Node, len(b.Chapters))
	for i, c := range b.Chapters {
		nodes[i] = c
	}
	return nodes
}

func (c Chapter) Children() []Node {
	nodes := make([]Node, len(c.Sections))
	for i, s := range c.Sections {
		nodes[i] = s
	}
	return nodes
}

func firstByte(raw json.RawMessage) byte {
	for _, ch := range raw {
		switch ch {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return ch
	}
	return 0
}

func isNull(raw json.RawMessage) bool   { return firstByte(raw) == 'n' }
func isArray(raw json.RawMessage) bool  { return firstByte(raw) == '[' }
func isObject(raw json.RawMessage) bool { return firstByte(raw) == '{' }
