package score

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/OFFIS-RIT/congraph/pkg/model"
)

const promptTemplate = `You are a knowledge graph assistant. Two concepts appear together in a text passage. Decide whether the passage supports a semantic relation between them.

Concept A: %s
Concept B: %s

Passage:
"""
%s
"""

Allowed predicates: %s

Respond with a single JSON object matching this schema:
%s

Use "related_to" when no more specific predicate applies. The confidence must be a number between 0 and 1. The evidence must be a short quote from the passage.`

// verdictSchema renders the JSON Schema of the verdict shape once; it is
// embedded into every prompt so the model sees the exact expected fields.
var verdictSchema = generateSchema(model.LlmVerdict{})

func generateSchema(value any) string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	schema := reflector.Reflect(reflect.New(t).Interface())
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// BuildPrompt constructs the scoring prompt for a candidate: both concepts
// by lemma, the evidence passage and the allowed predicate vocabulary.
func BuildPrompt(candidate model.RelationCandidate, predicates []string) string {
	return fmt.Sprintf(
		promptTemplate,
		candidate.A.Lemma,
		candidate.B.Lemma,
		candidate.Evidence,
		strings.Join(predicates, ", "),
		verdictSchema,
	)
}
