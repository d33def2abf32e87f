package decompose

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rulebook-agent/internal/llm"
	"github.com/jonathan/rulebook-agent/internal/types"
)

// fakeClient returns canned model output and records the prompts it was given.
type fakeClient struct {
	response   string
	err        error
	gotSystem  string
	gotContent string
}

func (f *fakeClient) GenerateJSON(_ context.Context, systemPrompt, userContent string, _ llm.ModelTier) (string, error) {
	f.gotSystem = systemPrompt
	f.gotContent = userContent
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

const validRegulationJSON = `{
	"title": "Review of Cash Withdrawal Limits",
	"reference": "BSD/2024/05",
	"link": "/static/circulars/c5.pdf",
	"type": "CIRCULARS",
	"description": "Revised limits on over-the-counter cash withdrawals.",
	"release_date": "12/05/2024",
	"effective_date": "01/06/2024",
	"last_amend_date": "",
	"regulatory_status": "ACTIVE",
	"sections": [
		{
			"title": "BSD/2024/05-1: Withdrawal cap",
			"description": "Weekly OTC withdrawals are capped per customer.",
			"action_plan": "Update teller systems to enforce the cap.",
			"sanctions": "Penalties per section 5.",
			"requires_regulatory_returns": true,
			"frequency_of_returns": "Monthly",
			"units": ["IT", "COMPLIANCE"],
			"timeline_date": "01/06/2024"
		}
	]
}`

func sampleDocument() *types.ExtractedDocument {
	return &types.ExtractedDocument{
		Reference:   "BSD/2024/05",
		Link:        "/static/circulars/c5.pdf",
		Description: "Circular 5",
		PublishDate: "12/05/2024",
		Content:     "\n--- Page 1 ---\nAll banks shall...",
	}
}

func TestDecompose_Success(t *testing.T) {
	client := &fakeClient{response: validRegulationJSON}
	engine := NewEngine(client, llm.TierStandard)

	regulation, err := engine.Decompose(context.Background(), sampleDocument())
	require.NoError(t, err)

	assert.Equal(t, "BSD/2024/05", regulation.Reference)
	assert.Equal(t, types.TypeCirculars, regulation.Type)
	assert.Equal(t, types.StatusActive, regulation.RegulatoryStatus)
	require.Len(t, regulation.Sections, 1)
	assert.True(t, regulation.Sections[0].RequiresRegulatoryReturns)
	assert.Equal(t, []types.Unit{types.UnitIT, types.UnitCompliance}, regulation.Sections[0].Units)
}

func TestDecompose_PromptCarriesDocument(t *testing.T) {
	client := &fakeClient{response: validRegulationJSON}
	engine := NewEngine(client, llm.TierStandard)

	_, err := engine.Decompose(context.Background(), sampleDocument())
	require.NoError(t, err)

	// The fixed instruction goes in the system prompt, document data in the
	// user content.
	assert.Contains(t, client.gotSystem, "compliance officer or regulatory analyst")
	assert.Contains(t, client.gotSystem, "similarity rating of more than 50%")
	assert.Contains(t, client.gotContent, "#Reference: BSD/2024/05")
	assert.Contains(t, client.gotContent, "#Publish Date: 12/05/2024")
	assert.Contains(t, client.gotContent, "All banks shall...")
}

func TestDecompose_ModelErrorWrapped(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}
	engine := NewEngine(client, llm.TierStandard)

	_, err := engine.Decompose(context.Background(), sampleDocument())
	require.Error(t, err)

	var decompErr *DecompositionError
	require.ErrorAs(t, err, &decompErr)
	assert.Equal(t, "BSD/2024/05", decompErr.Reference)
}

func TestDecompose_SchemaViolation(t *testing.T) {
	// Missing required sections, bad enum value.
	client := &fakeClient{response: `{
		"title": "t", "reference": "r", "type": "MEMO",
		"release_date": "2024-01-01", "regulatory_status": "ACTIVE",
		"sections": []
	}`}
	engine := NewEngine(client, llm.TierStandard)

	_, err := engine.Decompose(context.Background(), sampleDocument())
	require.Error(t, err)

	var decompErr *DecompositionError
	require.ErrorAs(t, err, &decompErr)

	var schemaErr *SchemaViolationError
	require.ErrorAs(t, err, &schemaErr)
	assert.NotEmpty(t, schemaErr.Violations)
}

func TestDecompose_NonJSONOutput(t *testing.T) {
	client := &fakeClient{response: "I could not process this document."}
	engine := NewEngine(client, llm.TierStandard)

	_, err := engine.Decompose(context.Background(), sampleDocument())
	require.Error(t, err)

	var decompErr *DecompositionError
	assert.ErrorAs(t, err, &decompErr)
}
