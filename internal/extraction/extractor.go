package extraction

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/jonathan/rulebook-agent/internal/fetch"
	"github.com/jonathan/rulebook-agent/internal/storage"
	"github.com/jonathan/rulebook-agent/internal/types"
)

// unsafeFileChars matches everything outside the safe filename alphabet.
var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_\-.]`)

// Rasterizer converts a PDF on disk into one image per page, returned in page
// order.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath string) ([]string, error)
}

// Recognizer runs optical character recognition on a single page image. An
// empty result is valid (blank page).
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Extractor turns a catalog entry into an ExtractedDocument. Documents are
// always persisted to the local assets store first, because rasterization
// needs to reopen the file; an optional archive store (object storage)
// additionally receives a copy and then supplies the document link.
type Extractor struct {
	baseURL    string
	assets     *storage.LocalStore
	archive    storage.BlobStore
	rasterizer Rasterizer
	recognizer Recognizer
	opts       *fetch.Options
}

// NewExtractor creates an Extractor. archive may be nil, in which case the
// local serving link is used.
func NewExtractor(baseURL string, assets *storage.LocalStore, archive storage.BlobStore, rasterizer Rasterizer, recognizer Recognizer, opts *fetch.Options) *Extractor {
	return &Extractor{
		baseURL:    baseURL,
		assets:     assets,
		archive:    archive,
		rasterizer: rasterizer,
		recognizer: recognizer,
		opts:       opts,
	}
}

// Extract downloads the entry's document, persists it, and OCRs every page
// into one text blob with explicit page delimiters.
func (e *Extractor) Extract(ctx context.Context, entry types.SourceEntry) (*types.ExtractedDocument, error) {
	docURL := fetch.ResolveURL(e.baseURL, entry.Link)

	content, err := fetch.Get(ctx, docURL, e.opts)
	if err != nil {
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) {
			return nil, &DownloadError{URL: docURL, StatusCode: fetchErr.StatusCode, Cause: err}
		}
		return nil, &DownloadError{URL: docURL, Cause: err}
	}

	name := SanitizeFileName(path.Base(docURL))

	link, err := e.assets.Save(ctx, name, content)
	if err != nil {
		return nil, &ExtractionError{Document: name, Stage: "persist", Cause: err}
	}
	if e.archive != nil {
		archiveLink, err := e.archive.Save(ctx, name, content)
		if err != nil {
			return nil, &ExtractionError{Document: name, Stage: "archive", Cause: err}
		}
		link = archiveLink
	}

	text, err := e.recognizeAll(ctx, name)
	if err != nil {
		return nil, err
	}

	return &types.ExtractedDocument{
		Reference:   entry.RefNo,
		Link:        link,
		Description: entry.Title,
		PublishDate: entry.DocumentDate,
		Content:     text,
	}, nil
}

// recognizeAll rasterizes the persisted document and OCRs each page,
// concatenating the results with page markers so boundaries stay locatable.
func (e *Extractor) recognizeAll(ctx context.Context, name string) (string, error) {
	pages, err := e.rasterizer.Rasterize(ctx, e.assets.LocalPath(name))
	if err != nil {
		return "", &ExtractionError{Document: name, Stage: "rasterize", Cause: err}
	}
	if len(pages) == 0 {
		return "", &ExtractionError{Document: name, Stage: "rasterize", Cause: errors.New("document produced no pages")}
	}

	var sb strings.Builder
	for i, page := range pages {
		pageText, err := e.recognizer.Recognize(ctx, page)
		if err != nil {
			return "", &ExtractionError{Document: name, Stage: fmt.Sprintf("ocr page %d", i+1), Cause: err}
		}
		sb.WriteString(fmt.Sprintf("\n--- Page %d ---\n", i+1))
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

// SanitizeFileName replaces every character outside [A-Za-z0-9_.-] with an
// underscore.
func SanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}
