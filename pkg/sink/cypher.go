package sink

import (
	"fmt"
	"time"

	"github.com/OFFIS-RIT/congraph/pkg/model"
)

// idProperty returns the merge key property for a node label.
func idProperty(label string) string {
	switch label {
	case "Chunk":
		return "chunkId"
	case "Concept":
		return "conceptId"
	default:
		return "id"
	}
}

// sanitizeLabel keeps labels safe for interpolation; labels, like
// relationship types, cannot be query parameters.
func sanitizeLabel(label string) string {
	out := make([]rune, 0, len(label))
	for _, r := range label {
		valid := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
		if !valid {
			r = '_'
		}
		out = append(out, r)
	}
	return string(out)
}

// nodeCypher renders a node upsert. MERGE on (label, id-property) makes the
// command idempotent under replay; SET refreshes every property on the
// matched node.
func nodeCypher(write model.GraphWrite) (string, map[string]any) {
	label := sanitizeLabel(write.Label)
	query := fmt.Sprintf(
		"MERGE (n:%s {%s: $id}) SET n += $props",
		label, idProperty(label),
	)
	props := write.Props
	if props == nil {
		props = map[string]any{}
	}
	return query, map[string]any{
		"id":    write.ID,
		"props": props,
	}
}

// edgeCypher renders a directed edge upsert. Both endpoints are MERGEd
// first: an edge arriving before its node's full properties creates a
// placeholder endpoint that a later node upsert completes. updatedAt is
// refreshed on every application.
func edgeCypher(write model.GraphWrite, now time.Time) (string, map[string]any) {
	fromLabel := sanitizeLabel(write.FromLabel)
	toLabel := sanitizeLabel(write.ToLabel)
	relType := model.SanitizeRelType(write.Rel)

	query := fmt.Sprintf(
		"MERGE (a:%s {%s: $fromId}) "+
			"MERGE (b:%s {%s: $toId}) "+
			"MERGE (a)-[r:%s]->(b) "+
			"SET r += $props SET r.updatedAt = $updatedAt",
		fromLabel, idProperty(fromLabel),
		toLabel, idProperty(toLabel),
		relType,
	)
	props := write.Props
	if props == nil {
		props = map[string]any{}
	}
	return query, map[string]any{
		"fromId":    write.FromID,
		"toId":      write.ToID,
		"props":     props,
		"updatedAt": now,
	}
}

// commandCypher is the single dispatch over the GraphWrite variants.
func commandCypher(write model.GraphWrite, now time.Time) (string, map[string]any) {
	switch write.Kind {
	case model.WriteEdge:
		return edgeCypher(write, now)
	default:
		return nodeCypher(write)
	}
}
