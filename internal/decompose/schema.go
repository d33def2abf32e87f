package decompose

// regulationSchema is the JSON Schema the model output must conform to. It
// mirrors the types.Regulation wire shape; conformance is the only
// correctness contract for model output, content quality is reviewed by
// humans downstream.
const regulationSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Regulation",
  "type": "object",
  "required": ["title", "reference", "type", "release_date", "regulatory_status", "sections"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "reference": {"type": "string", "minLength": 1},
    "link": {"type": "string"},
    "type": {"type": "string", "enum": ["ACT", "GUIDELINES", "CIRCULARS"]},
    "description": {"type": "string"},
    "release_date": {"type": "string", "minLength": 1},
    "effective_date": {"type": "string"},
    "last_amend_date": {"type": "string"},
    "regulatory_status": {"type": "string", "enum": ["ACTIVE", "REPEALED", "SUPERSEDED"]},
    "sections": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["title", "description"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "description": {"type": "string", "minLength": 1},
          "action_plan": {"type": "string"},
          "sanctions": {"type": "string"},
          "requires_regulatory_returns": {"type": "boolean"},
          "frequency_of_returns": {"type": "string"},
          "units": {
            "type": "array",
            "items": {"type": "string", "enum": ["IT", "RISK", "COMPLIANCE"]}
          },
          "timeline_date": {"type": "string"}
        }
      }
    }
  }
}`
