package pipeline

import (
	"github.com/OFFIS-RIT/congraph/pkg/model"
)

// Graph labels and fixed relationship types.
const (
	LabelChunk   = "Chunk"
	LabelConcept = "Concept"
	RelMentions  = "MENTIONS"
)

// ChunkNode materializes a chunk as a node-upsert command.
func ChunkNode(chunk model.Chunk) model.GraphWrite {
	return model.UpsertNode(LabelChunk, chunk.ChunkID, map[string]any{
		"chunkId":   chunk.ChunkID,
		"docId":     chunk.DocID,
		"text":      chunk.Text,
		"sourceUri": chunk.SourceURI,
		"hash":      chunk.Hash,
		"spanStart": chunk.Span.Start,
		"spanEnd":   chunk.Span.End,
	})
}

// ConceptNode materializes a concept as a node-upsert command.
func ConceptNode(concept model.Concept) model.GraphWrite {
	return model.UpsertNode(LabelConcept, concept.ConceptID, map[string]any{
		"conceptId": concept.ConceptID,
		"lemma":     concept.Lemma,
		"surface":   concept.Surface,
		"origin":    concept.Origin,
	})
}

// MentionEdge materializes a chunk-to-concept mention as an edge-upsert
// command.
func MentionEdge(chunkID string, concept model.Concept) model.GraphWrite {
	return model.UpsertEdge(LabelChunk, chunkID, RelMentions, LabelConcept, concept.ConceptID, map[string]any{})
}

// RelationEdge materializes a scored relation as a typed edge between its
// concepts. The predicate becomes the relationship type, canonically
// uppercased and sanitized.
func RelationEdge(relation model.ScoredRelation) model.GraphWrite {
	return model.UpsertEdge(
		LabelConcept, relation.A.ConceptID,
		model.SanitizeRelType(relation.Predicate),
		LabelConcept, relation.B.ConceptID,
		map[string]any{
			"confidence": relation.Confidence,
			"evidence":   relation.Evidence,
		},
	)
}
