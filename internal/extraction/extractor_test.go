package extraction

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rulebook-agent/internal/storage"
	"github.com/jonathan/rulebook-agent/internal/types"
)

// fakeRasterizer returns a fixed number of synthetic page paths.
type fakeRasterizer struct {
	pages int
	err   error
}

func (f *fakeRasterizer) Rasterize(_ context.Context, pdfPath string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	// The document must exist on disk at rasterization time.
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, err
	}
	paths := make([]string, f.pages)
	for i := range paths {
		paths[i] = fmt.Sprintf("%s.page%d.png", pdfPath, i+1)
	}
	return paths, nil
}

// fakeRecognizer echoes the page path, optionally failing on one page.
type fakeRecognizer struct {
	failOn string
}

func (f *fakeRecognizer) Recognize(_ context.Context, imagePath string) (string, error) {
	if f.failOn != "" && imagePath == f.failOn {
		return "", errors.New("unreadable page")
	}
	return "text from " + imagePath, nil
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean name unchanged", "BSD-2024_03.pdf", "BSD-2024_03.pdf"},
		{"spaces replaced", "circular no 5.pdf", "circular_no_5.pdf"},
		{"url characters replaced", "doc%20(final).pdf", "doc_20_final_.pdf"},
		{"unicode replaced", "naïra–policy.pdf", "na_ra_policy.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.in))
		})
	}
}

func TestExtract_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/docs/circular 5.pdf", r.URL.Path)
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer server.Close()

	assets := storage.NewLocalStore(t.TempDir(), "/static/circulars")
	extractor := NewExtractor(server.URL, assets, nil, &fakeRasterizer{pages: 2}, &fakeRecognizer{}, nil)

	entry := types.SourceEntry{
		ID:           5,
		RefNo:        "BSD/2024/05",
		Link:         "/docs/circular 5.pdf",
		Title:        "Circular 5",
		DocumentDate: "12/05/2024",
	}

	doc, err := extractor.Extract(context.Background(), entry)
	require.NoError(t, err)

	assert.Equal(t, "BSD/2024/05", doc.Reference)
	assert.Equal(t, "Circular 5", doc.Description)
	assert.Equal(t, "12/05/2024", doc.PublishDate)
	assert.Equal(t, "/static/circulars/circular_5.pdf", doc.Link)

	// Page markers delimit each page's text.
	assert.Contains(t, doc.Content, "--- Page 1 ---")
	assert.Contains(t, doc.Content, "--- Page 2 ---")
	assert.Contains(t, doc.Content, "text from ")
}

func TestExtract_DownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	assets := storage.NewLocalStore(t.TempDir(), "")
	extractor := NewExtractor(server.URL, assets, nil, &fakeRasterizer{pages: 1}, &fakeRecognizer{}, nil)

	_, err := extractor.Extract(context.Background(), types.SourceEntry{Link: "/missing.pdf"})
	require.Error(t, err)

	var downloadErr *DownloadError
	require.ErrorAs(t, err, &downloadErr)
	assert.Equal(t, http.StatusNotFound, downloadErr.HTTPStatus())
}

func TestExtract_RasterizationFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not a pdf"))
	}))
	defer server.Close()

	assets := storage.NewLocalStore(t.TempDir(), "")
	extractor := NewExtractor(server.URL, assets, nil, &fakeRasterizer{err: errors.New("bad pdf")}, &fakeRecognizer{}, nil)

	_, err := extractor.Extract(context.Background(), types.SourceEntry{Link: "/doc.pdf"})
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "rasterize", extractionErr.Stage)
}

func TestExtract_OCRFailureOnAnyPageIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	assets := storage.NewLocalStore(t.TempDir(), "")
	failing := assets.LocalPath("doc.pdf") + ".page2.png"
	extractor := NewExtractor(server.URL, assets, nil, &fakeRasterizer{pages: 3}, &fakeRecognizer{failOn: failing}, nil)

	_, err := extractor.Extract(context.Background(), types.SourceEntry{Link: "/doc.pdf"})
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Contains(t, extractionErr.Stage, "page 2")
}

// recordingStore captures archive writes.
type recordingStore struct {
	saved map[string][]byte
}

func (r *recordingStore) Save(_ context.Context, name string, content []byte) (string, error) {
	if r.saved == nil {
		r.saved = make(map[string][]byte)
	}
	r.saved[name] = content
	return "gs://archive/" + name, nil
}

func TestExtract_ArchiveLinkWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	assets := storage.NewLocalStore(t.TempDir(), "/static/circulars")
	archive := &recordingStore{}
	extractor := NewExtractor(server.URL, assets, archive, &fakeRasterizer{pages: 1}, &fakeRecognizer{}, nil)

	doc, err := extractor.Extract(context.Background(), types.SourceEntry{Link: "/doc.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "gs://archive/doc.pdf", doc.Link)
	assert.Contains(t, archive.saved, "doc.pdf")
}

func TestExtract_AbsoluteLinkPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/elsewhere/doc.pdf", r.URL.Path)
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	assets := storage.NewLocalStore(t.TempDir(), "")
	extractor := NewExtractor("http://base.invalid", assets, nil, &fakeRasterizer{pages: 1}, &fakeRecognizer{}, nil)

	_, err := extractor.Extract(context.Background(), types.SourceEntry{Link: server.URL + "/elsewhere/doc.pdf"})
	require.NoError(t, err)
}
