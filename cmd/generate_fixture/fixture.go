package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/mrlokans/curriculum/internal/config"
	"github.com/mrlokans/curriculum/internal/manifest"
)

// onePixelPNG is a valid 1x1 transparent PNG.
var onePixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type subjectTemplate struct {
	id    string
	title string
	book  string
	terms [][2]string
}

var catalogue = []subjectTemplate{
	{"bio", "Biology", "Cells and Tissues", [][2]string{{"cell", "smallest unit of life"}, {"nucleus", "holds the genetic material"}, {"membrane", "boundary of the cell"}}},
	{"chem", "Chemistry", "Atoms and Bonds", [][2]string{{"atom", "smallest unit of an element"}, {"ion", "charged atom"}, {"covalent bond", "shared electron pair"}}},
	{"geo", "Geography", "Rivers and Coasts", [][2]string{{"delta", "sediment at a river mouth"}, {"estuary", "tidal river mouth"}}},
}

// Stats summarizes a generated export.
type Stats struct {
	ManifestItems int
	Files         int
}

// Generate writes an export with the given number of subjects to dir. Each
// subject has one book with two chapters; the first chapter's section
// carries every supported content kind.
func Generate(dir string, subjects int) (Stats, error) {
	if subjects < 1 || subjects > len(catalogue) {
		return Stats{}, errors.Newf("subjects must be between 1 and %d", len(catalogue))
	}

	w := &writer{root: dir}
	var list []any
	for _, s := range catalogue[:subjects] {
		subject, err := w.subject(s)
		if err != nil {
			return Stats{}, err
		}
		list = append(list, subject)
	}

	tree := map[string]any{"subjects": list}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return Stats{}, errors.Wrap(err, "encode manifest")
	}
	if err := w.write(config.DefaultManifestName, data); err != nil {
		return Stats{}, err
	}

	// Count on the decoded form so the number matches what an import sees.
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Stats{}, errors.Wrap(err, "decode manifest")
	}
	return Stats{ManifestItems: manifest.CountItems(decoded), Files: w.files}, nil
}

type writer struct {
	root  string
	files int
}

func (w *writer) write(rel string, data []byte) error {
	full := filepath.Join(w.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(full))
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", full)
	}
	w.files++
	return nil
}

func (w *writer) subject(s subjectTemplate) (map[string]any, error) {
	var chapters []any
	for idx := 1; idx <= 2; idx++ {
		chapter, err := w.chapter(s, idx)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}

	return map[string]any{
		"subjectId": s.id,
		"title":     s.title,
		"books": []any{map[string]any{
			"bookId":    s.id + "-book",
			"title":     s.book,
			"author":    "Fixture Author",
			"publisher": "Fixture Press",
			"chapters":  chapters,
		}},
	}, nil
}

func (w *writer) chapter(s subjectTemplate, idx int) (map[string]any, error) {
	base := fmt.Sprintf("%s/chapters/%d", s.id, idx)
	section := map[string]any{
		"sectionIdOrIdx": fmt.Sprintf("%d.1", idx),
		"path":           base + "/1",
		"title":          fmt.Sprintf("%s %d.1", s.title, idx),
	}

	if idx == 1 {
		content, err := w.fullContent(s, base)
		if err != nil {
			return nil, err
		}
		section["content"] = content
	} else {
		// Positional fallbacks: no ids on the terms.
		var terms []any
		for _, t := range s.terms[:1] {
			terms = append(terms, map[string]any{"term": t[0], "definition": t[1]})
		}
		section["content"] = map[string]any{"terms": terms}
	}

	return map[string]any{
		"chapterIdOrIdx": idx,
		"path":           base,
		"title":          fmt.Sprintf("Chapter %d", idx),
		"sections":       []any{section},
	}, nil
}

func (w *writer) fullContent(s subjectTemplate, base string) (map[string]any, error) {
	var terms []any
	for i, t := range s.terms {
		terms = append(terms, map[string]any{
			"id":         fmt.Sprintf("%s-term-%d", s.id, i+1),
			"term":       t[0],
			"definition": t[1],
		})
	}

	theoryPath := base + "/theory.json"
	if err := w.write(theoryPath, []byte(`{"source":"fixture"}`)); err != nil {
		return nil, err
	}
	if err := w.write(base+"/img/diagram.png", onePixelPNG); err != nil {
		return nil, err
	}

	return map[string]any{
		"terms": terms,
		"summary": map[string]any{
			"title":    "Summary",
			"markdown": fmt.Sprintf("# %s\n\nKey ideas of the chapter.", s.title),
		},
		"theory": []any{map[string]any{
			"id":         s.id + "-theory-1",
			"title":      s.title + " theory",
			"sourcePath": theoryPath,
			"html": `<p>See the diagram.</p><img src="img/diagram.png" alt="diagram">` +
				`<img src="https://example.com/external.png" alt="external">`,
		}},
		"questions": []any{map[string]any{
			"id":            s.id + "-q-1",
			"prompt":        fmt.Sprintf("What is a %s?", s.terms[0][0]),
			"type":          "mcq",
			"options":       []string{s.terms[0][1], "something else"},
			"correctAnswer": 0,
		}},
		"exams": []any{map[string]any{
			"id":    s.id + "-exam-1",
			"title": s.title + " chapter test",
			"questions": []any{map[string]any{
				"prompt": fmt.Sprintf("Define %s.", s.terms[1][0]),
				"answer": s.terms[1][1],
			}},
		}},
	}, nil
}
