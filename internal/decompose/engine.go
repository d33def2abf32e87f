package decompose

import (
	"context"
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/rulebook-agent/internal/llm"
	"github.com/jonathan/rulebook-agent/internal/types"
)

// Engine decomposes extracted circulars into structured regulations.
type Engine struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewEngine creates an Engine on top of an LLM client.
func NewEngine(client llm.Client, tier llm.ModelTier) *Engine {
	if tier == "" {
		tier = llm.TierStandard
	}
	return &Engine{client: client, tier: tier}
}

// Decompose runs the fixed decomposition prompt over the document and returns
// the schema-validated regulation. Model output that fails schema validation
// is a DecompositionError; content accuracy is not checked here.
func (e *Engine) Decompose(ctx context.Context, doc *types.ExtractedDocument) (*types.Regulation, error) {
	raw, err := e.client.GenerateJSON(ctx, systemPrompt, buildUserContent(doc), e.tier)
	if err != nil {
		return nil, &DecompositionError{
			Reference: doc.Reference,
			Message:   "model call failed",
			Cause:     err,
		}
	}

	if err := validateAgainstSchema(raw); err != nil {
		return nil, &DecompositionError{
			Reference: doc.Reference,
			Message:   "model output failed schema validation",
			Cause:     err,
		}
	}

	var regulation types.Regulation
	if err := json.Unmarshal([]byte(raw), &regulation); err != nil {
		return nil, &DecompositionError{
			Reference: doc.Reference,
			Message:   "failed to parse model output",
			Cause:     err,
		}
	}

	if err := regulation.Validate(); err != nil {
		return nil, &DecompositionError{
			Reference: doc.Reference,
			Message:   "regulation failed validation",
			Cause:     err,
		}
	}

	return &regulation, nil
}

// validateAgainstSchema checks raw JSON against the regulation schema.
func validateAgainstSchema(raw string) error {
	schemaLoader := gojsonschema.NewStringLoader(regulationSchema)
	documentLoader := gojsonschema.NewStringLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	validationErr := &SchemaViolationError{}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Violations = append(validationErr.Violations, FieldViolation{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
