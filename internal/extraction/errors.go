// Package extraction downloads circular documents and turns them into text
// via page rasterization and optical character recognition.
package extraction

import "fmt"

// DownloadError represents a failed document fetch.
type DownloadError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *DownloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("download error for %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("download error for %s: HTTP status %d", e.URL, e.StatusCode)
}

func (e *DownloadError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the download status code, or zero if none was received.
func (e *DownloadError) HTTPStatus() int {
	return e.StatusCode
}

// ExtractionError represents a rasterization or recognition failure. Any page
// failing is fatal for the whole document: partial text is never published.
type ExtractionError struct {
	Document string
	Stage    string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error for %s (%s): %v", e.Document, e.Stage, e.Cause)
	}
	return fmt.Sprintf("extraction error for %s (%s)", e.Document, e.Stage)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
