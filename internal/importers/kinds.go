package importers

import (
	"github.com/mrlokans/curriculum/internal/manifest"
	"github.com/mrlokans/curriculum/internal/report"
)

// Policy is how the walker reacts when a node fails to import.
type Policy int

const (
	// FailFast skips the failed node's subtree. Siblings still run.
	FailFast Policy = iota
	// FailSoft records the failure and continues with the next node.
	FailSoft
)

func (p Policy) String() string {
	if p == FailFast {
		return "fail-fast"
	}
	return "fail-soft"
}

type descriptor struct {
	label   string
	policy  Policy
	counter func(*report.Counts) *int
}

var kinds = map[manifest.Kind]descriptor{
	manifest.KindSubject: {
		label:   "Subject",
		policy:  FailFast,
		counter: func(c *report.Counts) *int { return &c.Subjects },
	},
	manifest.KindBook: {
		label:   "Book",
		policy:  FailFast,
		counter: func(c *report.Counts) *int { return &c.Books },
	},
	manifest.KindChapter: {
		label:   "Chapter",
		policy:  FailFast,
		counter: func(c *report.Counts) *int { return &c.Chapters },
	},
	manifest.KindSection: {
		label:   "Section",
		policy:  FailFast,
		counter: func(c *report.Counts) *int { return &c.Sections },
	},
	manifest.KindVocabularySet: {
		label:   "Terms",
		policy:  FailSoft,
		counter: func(c *report.Counts) *int { return &c.Sets },
	},
	manifest.KindDocument: {
		label:   "Document",
		policy:  FailSoft,
		counter: func(c *report.Counts) *int { return &c.Docs },
	},
	manifest.KindQuestion: {
		label:   "Practice Question",
		policy:  FailSoft,
		counter: func(c *report.Counts) *int { return &c.Questions },
	},
	manifest.KindQuiz: {
		label:   "Exam",
		policy:  FailSoft,
		counter: func(c *report.Counts) *int { return &c.Quizzes },
	},
}

// PolicyFor returns the failure policy of a node kind.
func PolicyFor(kind manifest.Kind) Policy {
	return kinds[kind].policy
}
