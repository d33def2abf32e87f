package publish

import "time"

// dateLayouts are the input formats the model is known to emit. ISO first,
// since the downstream wants it unchanged.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// NormalizeDate converts a model-produced date string to YYYY-MM-DD. Inputs
// that match no known layout pass through unchanged rather than failing the
// whole publication.
func NormalizeDate(value string) string {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return value
}

// normalizeWithFallback normalizes value, substituting fallback when value is
// empty. Effective, amendment and timeline dates default to the release date.
func normalizeWithFallback(value, fallback string) string {
	if value == "" {
		value = fallback
	}
	return NormalizeDate(value)
}
