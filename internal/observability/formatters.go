// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/rulebook-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// contentPreviewLen caps how much OCR text the preview shows
	contentPreviewLen = 200
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintNewEntries outputs the catalog entries selected for this run, oldest
// first.
func (p *Printer) PrintNewEntries(entries []types.SourceEntry) {
	if len(entries) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d new circular(s):\n\n", len(entries)))

	count := min(len(entries), maxItemsToShow)
	for i := 0; i < count; i++ {
		entry := entries[i]
		sb.WriteString(fmt.Sprintf("#%d  id=%d  %s\n", i+1, entry.ID, entry.RefNo))
		title := entry.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("    %s\n", title))
		if entry.DocumentDate != "" {
			sb.WriteString(fmt.Sprintf("    Published: %s\n", entry.DocumentDate))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(entries) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more entries", len(entries)-maxItemsToShow))
	}

	p.printBox("NEW CATALOG ENTRIES", sb.String())
}

// PrintExtractedDocument outputs a summary of the downloaded and OCRed
// document, including a short content preview.
func (p *Printer) PrintExtractedDocument(doc *types.ExtractedDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Reference: %s\n", doc.Reference))
	sb.WriteString(fmt.Sprintf("Link:      %s\n", doc.Link))
	sb.WriteString(fmt.Sprintf("Published: %s\n", doc.PublishDate))
	sb.WriteString(fmt.Sprintf("Pages:     %d\n", strings.Count(doc.Content, "--- Page ")))
	sb.WriteString("\n")

	preview := strings.TrimSpace(doc.Content)
	if len(preview) > contentPreviewLen {
		preview = preview[:contentPreviewLen-3] + "..."
	}
	sb.WriteString("Content preview:\n")
	sb.WriteString(preview)

	p.printBox("EXTRACTED DOCUMENT", sb.String())
}

// PrintRegulation outputs the decomposed regulation with its sections.
func (p *Printer) PrintRegulation(regulation *types.Regulation) {
	if regulation == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:     %s\n", regulation.Title))
	sb.WriteString(fmt.Sprintf("Reference: %s\n", regulation.Reference))
	sb.WriteString(fmt.Sprintf("Type:      %s\n", regulation.Type))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", regulation.RegulatoryStatus))
	sb.WriteString(fmt.Sprintf("Released:  %s\n", regulation.ReleaseDate))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Sections (%d):\n", len(regulation.Sections)))

	count := min(len(regulation.Sections), maxItemsToShow)
	for i := 0; i < count; i++ {
		section := regulation.Sections[i]
		title := section.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", title))

		markers := []string{}
		if section.RequiresRegulatoryReturns {
			markers = append(markers, "returns:"+section.FrequencyOfReturns)
		}
		if len(section.Units) > 0 {
			units := make([]string, 0, len(section.Units))
			for _, unit := range section.Units {
				units = append(units, string(unit))
			}
			markers = append(markers, strings.Join(units, ","))
		}
		if len(markers) > 0 {
			sb.WriteString(fmt.Sprintf("    [%s]\n", strings.Join(markers, " ")))
		}
	}

	if len(regulation.Sections) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more sections\n", len(regulation.Sections)-maxItemsToShow))
	}

	p.printBox("DECOMPOSED REGULATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs the run's final tally.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRunSummary(processed int, bootstrap bool) {
	border := strings.Repeat("─", boxWidth-2)
	var status string
	switch {
	case bootstrap:
		status = "✅ FIRST RUN: WATERMARK SEEDED"
	case processed == 0:
		status = "✅ NO NEW CIRCULARS"
	default:
		status = fmt.Sprintf("✅ PUBLISHED %d CIRCULAR(S)", processed)
	}
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, status)
	fmt.Fprintf(p.out, "└%s┘\n", border)
}
