package catalog

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/rulebook-agent/internal/types"
)

// ParseHTMLListing parses the regulator's HTML circulars listing into catalog
// entries, preserving document order (newest-first, matching the JSON API).
// Rows without a numeric id or a document link are skipped.
func ParseHTMLListing(html string) ([]types.SourceEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &FetchError{Message: "failed to parse HTML listing", Cause: err}
	}

	var entries []types.SourceEntry
	doc.Find("table tr[data-id]").Each(func(_ int, row *goquery.Selection) {
		idAttr, _ := row.Attr("data-id")
		id, err := strconv.ParseInt(strings.TrimSpace(idAttr), 10, 64)
		if err != nil {
			return
		}

		anchor := row.Find("a[href]").First()
		link, ok := anchor.Attr("href")
		if !ok || link == "" {
			return
		}

		cells := row.Find("td")
		entry := types.SourceEntry{
			ID:    id,
			Link:  link,
			Title: strings.TrimSpace(anchor.Text()),
		}
		if cells.Length() > 0 {
			entry.RefNo = strings.TrimSpace(cells.First().Text())
		}
		if cells.Length() > 2 {
			entry.DocumentDate = strings.TrimSpace(cells.Eq(2).Text())
		}
		entries = append(entries, entry)
	})

	if len(entries) == 0 {
		return nil, &FetchError{Message: "HTML listing contained no entries"}
	}
	return entries, nil
}
