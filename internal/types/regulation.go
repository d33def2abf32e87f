// Package types provides type definitions for structured data used throughout the rulebook agent.
package types

import (
	"github.com/go-playground/validator/v10"
)

// RegulationType classifies the kind of regulatory document.
type RegulationType string

// Regulation type values accepted by the downstream rulebook inventory.
const (
	TypeAct        RegulationType = "ACT"
	TypeGuidelines RegulationType = "GUIDELINES"
	TypeCirculars  RegulationType = "CIRCULARS"
)

// RegulatoryStatus describes whether a regulation is currently in force.
type RegulatoryStatus string

// Regulatory status values accepted by the downstream rulebook inventory.
const (
	StatusActive     RegulatoryStatus = "ACTIVE"
	StatusRepealed   RegulatoryStatus = "REPEALED"
	StatusSuperseded RegulatoryStatus = "SUPERSEDED"
)

// Unit identifies an organizational unit a compliance rule applies to.
type Unit string

// Unit values accepted by the downstream rulebook inventory.
const (
	UnitIT         Unit = "IT"
	UnitRisk       Unit = "RISK"
	UnitCompliance Unit = "COMPLIANCE"
)

// Section is one actionable compliance measure decomposed from a regulation.
// Sections have no identity outside their owning Regulation.
type Section struct {
	Title                     string `json:"title" validate:"required"`
	Description               string `json:"description" validate:"required"`
	ActionPlan                string `json:"action_plan"`
	Sanctions                 string `json:"sanctions"`
	RequiresRegulatoryReturns bool   `json:"requires_regulatory_returns"`
	FrequencyOfReturns        string `json:"frequency_of_returns"`
	Units                     []Unit `json:"units" validate:"dive,oneof=IT RISK COMPLIANCE"`
	TimelineDate              string `json:"timeline_date"`
}

// Regulation is the structured decomposition of one circular, as produced by
// the language model. All date fields are free-form strings; the publisher
// normalizes them before transmission.
type Regulation struct {
	Title            string           `json:"title" validate:"required"`
	Reference        string           `json:"reference" validate:"required"`
	Link             string           `json:"link"`
	Type             RegulationType   `json:"type" validate:"required,oneof=ACT GUIDELINES CIRCULARS"`
	Description      string           `json:"description"`
	ReleaseDate      string           `json:"release_date" validate:"required"`
	EffectiveDate    string           `json:"effective_date"`
	LastAmendDate    string           `json:"last_amend_date"`
	RegulatoryStatus RegulatoryStatus `json:"regulatory_status" validate:"required,oneof=ACTIVE REPEALED SUPERSEDED"`
	Sections         []Section        `json:"sections" validate:"required,min=1,dive"`
}

// Validate validates the Regulation using the validator.
func (r *Regulation) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
