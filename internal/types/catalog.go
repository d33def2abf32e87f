package types

// SourceEntry is one row of the upstream circulars catalog. Entries are
// immutable once listed; ID is the upstream-assigned identifier used as the
// run watermark.
type SourceEntry struct {
	ID           int64  `json:"id"`
	RefNo        string `json:"refNo"`
	Link         string `json:"link"`
	Title        string `json:"title"`
	DocumentDate string `json:"documentDate"`
}

// ExtractedDocument holds the OCR output for one circular, built fresh per
// entry and consumed by the decomposition engine.
type ExtractedDocument struct {
	Reference   string
	Link        string
	Description string
	PublishDate string
	Content     string
}
