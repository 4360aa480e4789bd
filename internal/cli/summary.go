package cli

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/mrlokans/curriculum/internal/report"
	"github.com/mrlokans/curriculum/internal/services"
)

// maxListed caps how many warnings and errors are printed.
const maxListed = 10

// RenderSummary formats a finished run for the terminal.
func RenderSummary(result *services.ImportResult) string {
	rep := result.Report
	var b strings.Builder

	b.WriteString(pterm.DefaultSection.Sprint("Import Report"))
	if rep.Success {
		b.WriteString(pterm.Success.Sprintln("Success"))
	} else {
		b.WriteString(pterm.Error.Sprintfln("Failed with %d errors", len(rep.Errors)))
	}

	cov := rep.Coverage
	b.WriteString("\nCoverage:\n")
	fmt.Fprintf(&b, "- Manifest Items: %d\n", cov.TotalItemsInManifest)
	fmt.Fprintf(&b, "- Items Processed: %d\n", cov.ItemsProcessed)
	fmt.Fprintf(&b, "- Coverage %%: %.1f%%\n", cov.Percent())
	if len(cov.UnsupportedItems) > 0 {
		fmt.Fprintf(&b, "- Unsupported Items: %d\n", len(cov.UnsupportedItems))
	}

	b.WriteString("\nTotals:\n")
	table, err := pterm.DefaultTable.WithHasHeader().WithData(totalsTable(rep.Counts)).Srender()
	if err != nil {
		// Plain fallback; the table only fails on malformed data.
		for _, row := range totalsTable(rep.Counts)[1:] {
			fmt.Fprintf(&b, "- %s: %s\n", row[0], row[1])
		}
	} else {
		b.WriteString(table)
		b.WriteString("\n")
	}

	writeList(&b, "Warnings", rep.Warnings)
	writeList(&b, "Errors", rep.Errors)

	if result.ReportPath != "" {
		fmt.Fprintf(&b, "\nFull report saved to: %s\n", result.ReportPath)
	}
	if result.LogPath != "" {
		fmt.Fprintf(&b, "Log file: %s\n", result.LogPath)
	}
	return b.String()
}

func totalsTable(c report.Counts) pterm.TableData {
	row := func(name string, n int) []string { return []string{name, fmt.Sprint(n)} }
	return pterm.TableData{
		{"Entity", "Count"},
		row("Subjects", c.Subjects),
		row("Books", c.Books),
		row("Chapters", c.Chapters),
		row("Sections", c.Sections),
		row("Documents", c.Docs),
		row("Vocabulary sets", c.Sets),
		row("Flashcards", c.Flashcards),
		row("Questions", c.Questions),
		row("Quizzes", c.Quizzes),
		row("Assets", c.Assets),
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s (%d):\n", title, len(items))
	for i, item := range items {
		if i == maxListed {
			b.WriteString("...\n")
			break
		}
		fmt.Fprintf(b, "- %s\n", item)
	}
}
