// Package pipeline provides the high-level orchestration for one ingestion run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/rulebook-agent/internal/catalog"
	"github.com/jonathan/rulebook-agent/internal/decompose"
	"github.com/jonathan/rulebook-agent/internal/extraction"
	"github.com/jonathan/rulebook-agent/internal/observability"
	"github.com/jonathan/rulebook-agent/internal/publish"
	"github.com/jonathan/rulebook-agent/internal/types"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// Step names emitted through ProgressEvent.
const (
	StepCatalog   = "catalog"
	StepExtract   = "extract"
	StepDecompose = "decompose"
	StepPublish   = "publish"
)

// RunResult summarizes one completed run.
type RunResult struct {
	RunID     uuid.UUID
	Processed int
	// Bootstrap is true when this was the first run against a fresh state
	// store: the watermark was seeded and no circulars were processed.
	Bootstrap bool
}

// Pipeline wires the per-run stages together: catalog diff, document
// extraction, model decomposition, and publication. One Pipeline is reused
// across scheduled runs.
type Pipeline struct {
	lister     *catalog.Lister
	extractor  *extraction.Extractor
	engine     *decompose.Engine
	publisher  *publish.Publisher
	printer    *observability.Printer
	verbose    bool
	onProgress ProgressCallback
}

// New creates a Pipeline.
func New(lister *catalog.Lister, extractor *extraction.Extractor, engine *decompose.Engine, publisher *publish.Publisher, verbose bool, onProgress ProgressCallback) *Pipeline {
	return &Pipeline{
		lister:     lister,
		extractor:  extractor,
		engine:     engine,
		publisher:  publisher,
		printer:    observability.NewPrinter(os.Stdout),
		verbose:    verbose,
		onProgress: onProgress,
	}
}

// emitProgress calls the progress callback if configured
func (p *Pipeline) emitProgress(runID uuid.UUID, step, message string, content any) {
	if p.onProgress != nil {
		p.onProgress(ProgressEvent{
			Step:    step,
			Message: message,
			RunID:   runID.String(),
			Content: content,
		})
	}
}

// Run executes one ingestion pass: it lists circulars newer than the
// watermark and processes them oldest first, stopping at the first failure so
// ordering is preserved. Entries already published keep their advanced
// watermark even when a later entry fails.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.New()
	result := &RunResult{RunID: runID}

	fmt.Printf("Step 1/4: Checking circulars catalog for new entries...\n")
	entries, err := p.lister.NewEntries(ctx)
	if err != nil {
		if errors.Is(err, catalog.ErrBootstrap) {
			fmt.Printf("First run detected: watermark seeded, nothing to process.\n")
			result.Bootstrap = true
			if p.verbose {
				p.printer.PrintRunSummary(0, true)
			}
			return result, nil
		}
		return nil, fmt.Errorf("run %s: catalog check failed: %w", runID, err)
	}

	if len(entries) == 0 {
		fmt.Printf("No new circulars.\n")
		if p.verbose {
			p.printer.PrintRunSummary(0, false)
		}
		return result, nil
	}

	fmt.Printf("Found %d new circular(s).\n", len(entries))
	if p.verbose {
		p.printer.PrintNewEntries(entries)
	}
	p.emitProgress(runID, StepCatalog, fmt.Sprintf("Found %d new circulars", len(entries)), entries)

	for _, entry := range entries {
		if err := p.processEntry(ctx, runID, entry); err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
		result.Processed++
	}

	if p.verbose {
		p.printer.PrintRunSummary(result.Processed, false)
	}
	fmt.Printf("Done! Published %d circular(s).\n", result.Processed)
	return result, nil
}

// processEntry takes one catalog entry through extraction, decomposition, and
// publication. The watermark advances inside the publisher, only after the
// inventory confirms acceptance.
func (p *Pipeline) processEntry(ctx context.Context, runID uuid.UUID, entry types.SourceEntry) error {
	fmt.Printf("Step 2/4: Downloading and reading circular %s (id=%d)...\n", entry.RefNo, entry.ID)
	document, err := p.extractor.Extract(ctx, entry)
	if err != nil {
		return fmt.Errorf("extracting circular %s failed: %w", entry.RefNo, err)
	}
	if p.verbose {
		p.printer.PrintExtractedDocument(document)
	}
	p.emitProgress(runID, StepExtract, fmt.Sprintf("Extracted circular %s", entry.RefNo), nil)

	fmt.Printf("Step 3/4: Decomposing circular %s into compliance rules...\n", entry.RefNo)
	regulation, err := p.engine.Decompose(ctx, document)
	if err != nil {
		return fmt.Errorf("decomposing circular %s failed: %w", entry.RefNo, err)
	}
	if p.verbose {
		p.printer.PrintRegulation(regulation)
	}
	p.emitProgress(runID, StepDecompose,
		fmt.Sprintf("Decomposed %s into %d sections", regulation.Reference, len(regulation.Sections)), regulation)

	fmt.Printf("Step 4/4: Publishing %s to the rulebook inventory...\n", regulation.Reference)
	if err := p.publisher.Publish(ctx, entry, regulation); err != nil {
		return fmt.Errorf("publishing circular %s failed: %w", entry.RefNo, err)
	}
	p.emitProgress(runID, StepPublish, fmt.Sprintf("Published %s", regulation.Reference), nil)

	return nil
}
