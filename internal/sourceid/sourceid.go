// Package sourceid derives the deterministic idempotency keys used as the
// conflict key for every persisted record.
//
// A SourceId has the form <system>:<kind>:<naturalKey>. Derivation is a pure
// function of the manifest node and its position, so re-running an import
// against an unchanged manifest always produces the same keys.
package sourceid

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/mrlokans/curriculum/internal/manifest"
)

// System is the namespace of every key produced for Export Contract v1.
const System = "studygo"

// Root is the parent of top-level subjects.
const Root ID = "root"

type ID string

// New builds a SourceId from a kind and a natural key.
func New(kind manifest.Kind, naturalKey string) ID {
	return ID(System + ":" + string(kind) + ":" + naturalKey)
}

func (id ID) String() string { return string(id) }

// NaturalKey returns the part after <system>:<kind>:.
func (id ID) NaturalKey() string {
	parts := strings.SplitN(string(id), ":", 3)
	if len(parts) < 3 {
		return string(id)
	}
	return parts[2]
}

// Scope is where a node sits: its parent's key and its index among siblings
// of the same kind.
type Scope struct {
	Parent ID
	Index  int
}

// Positional is the fallback natural key for nodes without upstream ids.
func Positional(parent ID, segment string, index int) string {
	return parent.NaturalKey() + "_" + segment + strconv.Itoa(index)
}

// ContentHash is the fallback natural key for documents identified only by their body.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "sha256-" + hex.EncodeToString(sum[:8])
}

// Derive returns the SourceId for node in scope.
func Derive(node manifest.Node, scope Scope) ID {
	switch n := node.(type) {
	case manifest.Subject:
		return New(manifest.KindSubject, keyOr(Positional(scope.Parent, "subject", scope.Index), n.SubjectID))
	case manifest.Book:
		return New(manifest.KindBook, keyOr(Positional(scope.Parent, "book", scope.Index), n.BookID))
	case manifest.Chapter:
		return New(manifest.KindChapter, keyOr(Positional(scope.Parent, "chapter", scope.Index), n.Path, n.ChapterIDOrIdx))
	case manifest.Section:
		return New(manifest.KindSection, keyOr(Positional(scope.Parent, "section", scope.Index), n.Path, n.SectionIDOrIdx))
	case manifest.VocabularySet:
		return VocabularySet(scope.Parent)
	case manifest.Term:
		return Flashcard(n, scope)
	case manifest.Document:
		return document(n, scope)
	case manifest.Question:
		return New(manifest.KindQuestion, keyOr(Positional(scope.Parent, "question", scope.Index), n.ID, manifest.NewKey(n.QuestionPath.String())))
	case manifest.Exam:
		return New(manifest.KindQuiz, keyOr(Positional(scope.Parent, "exam", scope.Index), n.ID, n.ExamIDOrKey, n.Path))
	default:
		return New(node.Kind(), Positional(scope.Parent, string(node.Kind()), scope.Index))
	}
}

// VocabularySet is the key of the single set built from a section's terms.
func VocabularySet(section ID) ID {
	return New(manifest.KindVocabularySet, "terms_"+section.NaturalKey())
}

// Flashcard keys an item by its own id, else by the set key and its position.
// scope.Parent must be the vocabulary set.
func Flashcard(term manifest.Term, scope Scope) ID {
	if term.ID.Truthy() {
		return New(manifest.KindFlashcard, term.ID.String())
	}
	return New(manifest.KindFlashcard, scope.Parent.String()+"_"+strconv.Itoa(scope.Index))
}

func document(d manifest.Document, scope Scope) ID {
	if key, ok := manifest.FirstTruthy(d.ID, d.TheoryHash, manifest.NewKey(d.SourcePath.String())); ok {
		return New(manifest.KindDocument, key)
	}
	if body, _ := d.Body(); body != "" {
		return New(manifest.KindDocument, ContentHash(body))
	}
	return New(manifest.KindDocument, Positional(scope.Parent, string(d.Role), scope.Index))
}

func keyOr(fallback string, keys ...manifest.Key) string {
	if key, ok := manifest.FirstTruthy(keys...); ok {
		return key
	}
	return fallback
}
