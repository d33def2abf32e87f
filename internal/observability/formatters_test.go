package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/rulebook-agent/internal/types"
)

func TestPrintNewEntries(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	entries := []types.SourceEntry{
		{ID: 5, RefNo: "BSD/2024/05", Title: "Review of Cash Withdrawal Limits", DocumentDate: "12/05/2024"},
		{ID: 6, RefNo: "BSD/2024/06", Title: "Guidance on Open Banking"},
	}

	p.PrintNewEntries(entries)
	output := buf.String()

	assert.Contains(t, output, "NEW CATALOG ENTRIES")
	assert.Contains(t, output, "id=5")
	assert.Contains(t, output, "BSD/2024/05")
	assert.Contains(t, output, "Published: 12/05/2024")
	assert.Contains(t, output, "BSD/2024/06")
}

func TestPrintNewEntries_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintNewEntries(nil)

	assert.Empty(t, buf.String())
}

func TestPrintExtractedDocument(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	doc := &types.ExtractedDocument{
		Reference:   "BSD/2024/05",
		Link:        "/static/circulars/c5.pdf",
		PublishDate: "12/05/2024",
		Content:     "\n--- Page 1 ---\nAll banks shall...\n--- Page 2 ---\nFurther...",
	}

	p.PrintExtractedDocument(doc)
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED DOCUMENT")
	assert.Contains(t, output, "BSD/2024/05")
	assert.Contains(t, output, "Pages:     2")
	assert.Contains(t, output, "All banks shall...")
}

func TestPrintExtractedDocument_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtractedDocument(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRegulation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	regulation := &types.Regulation{
		Title:            "Review of Cash Withdrawal Limits",
		Reference:        "BSD/2024/05",
		Type:             types.TypeCirculars,
		RegulatoryStatus: types.StatusActive,
		ReleaseDate:      "12/05/2024",
		Sections: []types.Section{
			{
				Title:                     "BSD/2024/05-1: Withdrawal cap",
				Description:               "Weekly OTC withdrawals are capped.",
				RequiresRegulatoryReturns: true,
				FrequencyOfReturns:        "Monthly",
				Units:                     []types.Unit{types.UnitIT, types.UnitCompliance},
			},
		},
	}

	p.PrintRegulation(regulation)
	output := buf.String()

	assert.Contains(t, output, "DECOMPOSED REGULATION")
	assert.Contains(t, output, "CIRCULARS")
	assert.Contains(t, output, "ACTIVE")
	assert.Contains(t, output, "Sections (1):")
	assert.Contains(t, output, "returns:Monthly")
	assert.Contains(t, output, "IT,COMPLIANCE")
}

func TestPrintRunSummary(t *testing.T) {
	tests := []struct {
		name      string
		processed int
		bootstrap bool
		want      string
	}{
		{name: "bootstrap", processed: 0, bootstrap: true, want: "FIRST RUN: WATERMARK SEEDED"},
		{name: "nothing new", processed: 0, bootstrap: false, want: "NO NEW CIRCULARS"},
		{name: "published", processed: 3, bootstrap: false, want: "PUBLISHED 3 CIRCULAR(S)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf)
			p.PrintRunSummary(tt.processed, tt.bootstrap)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
