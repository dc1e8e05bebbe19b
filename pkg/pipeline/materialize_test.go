package pipeline

import (
	"reflect"
	"testing"

	"github.com/OFFIS-RIT/congraph/pkg/model"
)

func TestChunkNode(t *testing.T) {
	chunk := model.Chunk{
		ChunkID:   "c1",
		DocID:     "d1",
		Span:      model.Span{Start: 5, End: 25},
		Text:      "some text",
		SourceURI: "s",
		Hash:      "h",
	}

	write := ChunkNode(chunk)
	if write.Kind != model.WriteNode || write.Label != "Chunk" || write.ID != "c1" {
		t.Fatalf("unexpected command: %+v", write)
	}

	wantProps := map[string]any{
		"chunkId":   "c1",
		"docId":     "d1",
		"text":      "some text",
		"sourceUri": "s",
		"hash":      "h",
		"spanStart": 5,
		"spanEnd":   25,
	}
	if !reflect.DeepEqual(write.Props, wantProps) {
		t.Errorf("props = %v, want %v", write.Props, wantProps)
	}
}

func TestConceptNode(t *testing.T) {
	concept := model.NewConcept("neo4j", "Neo4j", "NER")

	write := ConceptNode(concept)
	if write.Kind != model.WriteNode || write.Label != "Concept" || write.ID != concept.ConceptID {
		t.Fatalf("unexpected command: %+v", write)
	}
	if write.Props["lemma"] != "neo4j" || write.Props["surface"] != "Neo4j" || write.Props["origin"] != "NER" {
		t.Errorf("props = %v", write.Props)
	}
}

func TestMentionEdge(t *testing.T) {
	concept := model.NewConcept("api", "API", "acronym")

	write := MentionEdge("c1", concept)
	if write.Kind != model.WriteEdge {
		t.Fatalf("unexpected kind: %+v", write)
	}
	if write.FromLabel != "Chunk" || write.FromID != "c1" || write.Rel != "MENTIONS" {
		t.Errorf("unexpected edge endpoints: %+v", write)
	}
	if write.ToLabel != "Concept" || write.ToID != concept.ConceptID {
		t.Errorf("unexpected edge target: %+v", write)
	}
	if len(write.Props) != 0 {
		t.Errorf("mention edge carries props: %v", write.Props)
	}
}

func TestRelationEdge(t *testing.T) {
	a := model.NewConcept("api", "API", "acronym")
	b := model.NewConcept("rest", "REST", "acronym")
	relation := model.ScoredRelation{
		A:          a,
		B:          b,
		Predicate:  "is_a",
		Confidence: 0.9,
		Evidence:   "APIs follow REST",
	}

	write := RelationEdge(relation)
	if write.Rel != "IS_A" {
		t.Errorf("rel = %q, want IS_A", write.Rel)
	}
	if write.FromID != a.ConceptID || write.ToID != b.ConceptID {
		t.Errorf("unexpected endpoints: %+v", write)
	}
	if write.Props["confidence"] != 0.9 || write.Props["evidence"] != "APIs follow REST" {
		t.Errorf("props = %v", write.Props)
	}
}
