package publish

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/rulebook-agent/internal/auth"
	"github.com/jonathan/rulebook-agent/internal/fetch"
	"github.com/jonathan/rulebook-agent/internal/runstate"
	"github.com/jonathan/rulebook-agent/internal/types"
)

// DefaultFrequency is sent when a section requires regulatory returns but the
// model produced no frequency.
const DefaultFrequency = "NA"

// sectionDTO is the inventory API's section wire format.
type sectionDTO struct {
	AIRegulationDraftID       int    `json:"aiRegulationDraftId"`
	Title                     string `json:"title"`
	Description               string `json:"description"`
	ActionPlan                string `json:"actionPlan"`
	Sanctions                 string `json:"sanctions"`
	RequiresRegulatoryReturns string `json:"requiresRegulatoryReturns"`
	FrequencyOfReturns        string `json:"frequencyOfReturns"`
	Units                     string `json:"units"`
	TimelineDate              string `json:"timelineDate"`
}

// inventoryPayload is the inventory API's regulation wire format. The
// lastAmmendDate spelling is the downstream contract, not a typo to fix here.
type inventoryPayload struct {
	Title            string       `json:"title"`
	Reference        string       `json:"reference"`
	Link             string       `json:"link"`
	Type             string       `json:"type"`
	Description      string       `json:"description"`
	ReleaseDate      string       `json:"releaseDate"`
	EffectiveDate    string       `json:"effectiveDate"`
	LastAmendDate    string       `json:"lastAmmendDate"`
	RegulatoryStatus string       `json:"regulatoryStatus"`
	Sections         []sectionDTO `json:"aiRegulationSectionDtos"`
}

// inventoryResponse is the success envelope returned by the inventory API.
// A 2xx status alone does not confirm acceptance; IsSuccess does.
type inventoryResponse struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
}

// Publisher submits decomposed regulations to the rulebook inventory and
// advances the catalog watermark only after the inventory confirms acceptance.
type Publisher struct {
	inventoryURL string
	baseURL      string
	auth         *auth.Client
	store        runstate.Store
	opts         *fetch.Options
}

// NewPublisher creates a Publisher. opts may be nil for defaults.
func NewPublisher(inventoryURL, baseURL string, authClient *auth.Client, store runstate.Store, opts *fetch.Options) *Publisher {
	return &Publisher{
		inventoryURL: inventoryURL,
		baseURL:      baseURL,
		auth:         authClient,
		store:        store,
		opts:         opts,
	}
}

// Publish sends the regulation for entry to the inventory API. On confirmed
// success the watermark advances to entry's ID, making the entry durably
// processed. Any failure leaves the watermark untouched so the entry is
// retried on the next run.
func (p *Publisher) Publish(ctx context.Context, entry types.SourceEntry, regulation *types.Regulation) error {
	headers, err := p.auth.Headers(ctx)
	if err != nil {
		return err
	}

	opts := p.requestOptions(headers)
	payload := p.buildPayload(entry, regulation)

	var resp inventoryResponse
	if err := fetch.PostJSON(ctx, p.inventoryURL, payload, &resp, opts); err != nil {
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) && fetchErr.StatusCode != 0 {
			return &PublishError{
				Message:    fmt.Sprintf("inventory rejected %s", regulation.Reference),
				StatusCode: fetchErr.StatusCode,
				Cause:      err,
			}
		}
		return &PublishError{
			Message: fmt.Sprintf("inventory request failed for %s", regulation.Reference),
			Cause:   err,
		}
	}

	if !resp.IsSuccess {
		return &PublishError{
			Message: fmt.Sprintf("inventory reported failure for %s: %s", regulation.Reference, resp.Message),
			Logical: true,
		}
	}

	if err := p.store.Set(runstate.KeyLastID, strconv.FormatInt(entry.ID, 10), 0); err != nil {
		return &PublishError{
			Message: fmt.Sprintf("published %s but failed to advance watermark", regulation.Reference),
			Cause:   err,
		}
	}
	return nil
}

// buildPayload maps a Regulation onto the inventory wire schema: dates
// normalized to YYYY-MM-DD with release-date fallback, booleans stringified,
// units comma-joined, and the document link resolved against the source site.
func (p *Publisher) buildPayload(entry types.SourceEntry, regulation *types.Regulation) inventoryPayload {
	release := NormalizeDate(regulation.ReleaseDate)

	sections := make([]sectionDTO, 0, len(regulation.Sections))
	for _, section := range regulation.Sections {
		frequency := section.FrequencyOfReturns
		if frequency == "" {
			frequency = DefaultFrequency
		}
		sections = append(sections, sectionDTO{
			AIRegulationDraftID:       0,
			Title:                     section.Title,
			Description:               section.Description,
			ActionPlan:                section.ActionPlan,
			Sanctions:                 section.Sanctions,
			RequiresRegulatoryReturns: strconv.FormatBool(section.RequiresRegulatoryReturns),
			FrequencyOfReturns:        frequency,
			Units:                     joinUnits(section.Units),
			TimelineDate:              normalizeWithFallback(section.TimelineDate, regulation.ReleaseDate),
		})
	}

	return inventoryPayload{
		Title:            regulation.Title,
		Reference:        regulation.Reference,
		Link:             fetch.ResolveURL(p.baseURL, entry.Link),
		Type:             string(regulation.Type),
		Description:      regulation.Description,
		ReleaseDate:      release,
		EffectiveDate:    normalizeWithFallback(regulation.EffectiveDate, regulation.ReleaseDate),
		LastAmendDate:    normalizeWithFallback(regulation.LastAmendDate, regulation.ReleaseDate),
		RegulatoryStatus: string(regulation.RegulatoryStatus),
		Sections:         sections,
	}
}

func (p *Publisher) requestOptions(headers map[string]string) *fetch.Options {
	opts := p.opts
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	merged := &fetch.Options{
		Timeout:   opts.Timeout,
		UserAgent: opts.UserAgent,
		Headers:   make(map[string]string, len(opts.Headers)+len(headers)),
	}
	for key, value := range opts.Headers {
		merged.Headers[key] = value
	}
	for key, value := range headers {
		merged.Headers[key] = value
	}
	return merged
}

func joinUnits(units []types.Unit) string {
	names := make([]string, 0, len(units))
	for _, unit := range units {
		names = append(names, string(unit))
	}
	return strings.Join(names, ",")
}
