// Package model holds the data types that flow through the ingestion
// pipeline: chunks, concepts, relation candidates, LLM verdicts and the
// graph-write commands consumed by the sink.
package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// Chunk is an immutable unit of ingest with provenance. Created by the
// parse stage and never mutated afterwards.
type Chunk struct {
	ChunkID   string `json:"chunkId"`
	DocID     string `json:"docId"`
	Span      Span   `json:"span"`
	Text      string `json:"text"`
	SourceURI string `json:"sourceUri"`
	Hash      string `json:"hash"`
}

// Span marks the chunk's offsets into its source document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Concept is a canonical entity extracted from a chunk. ConceptID is a pure
// function of Lemma, so repeated extractions of the same lemma converge on
// one graph node.
type Concept struct {
	ConceptID string
	Lemma     string
	Surface   string
	Origin    string
}

// ConceptID returns the first 16 hex characters of the SHA-256 digest of the
// lemma's UTF-8 bytes.
func ConceptID(lemma string) string {
	sum := sha256.Sum256([]byte(lemma))
	return hex.EncodeToString(sum[:])[:16]
}

// NewConcept builds a Concept for a lemma, deriving its ID.
func NewConcept(lemma, surface, origin string) Concept {
	return Concept{
		ConceptID: ConceptID(lemma),
		Lemma:     lemma,
		Surface:   surface,
		Origin:    origin,
	}
}

// Mention pairs a chunk with a concept it contains.
type Mention struct {
	ChunkID string
	Concept Concept
}

// CoOccurrence is an unordered pair of distinct concepts observed in the
// same chunk. A is always the concept with the lexicographically smaller
// ConceptID.
type CoOccurrence struct {
	A        Concept
	B        Concept
	WindowID string
	Freq     int
}

// RelationCandidate is a co-occurrence enriched with evidence text for the
// scorer.
type RelationCandidate struct {
	CoOccurrence
	Evidence string
}

// LlmVerdict is the generative model's judgment for a candidate.
type LlmVerdict struct {
	Predicate  string  `json:"predicate" jsonschema_description:"One of the allowed predicates"`
	Confidence float64 `json:"confidence" jsonschema_description:"Confidence in the relation, between 0 and 1"`
	Evidence   string  `json:"evidence" jsonschema_description:"Short quote from the provided text supporting the relation"`
	Ref        string  `json:"ref" jsonschema_description:"Provenance token for this judgment"`
}

// ScoredRelation is a verdict that passed the confidence threshold, joined
// back to its concept pair.
type ScoredRelation struct {
	A          Concept
	B          Concept
	Predicate  string
	Confidence float64
	Evidence   string
}

// GraphWriteKind tags the two GraphWrite variants.
type GraphWriteKind int

const (
	WriteNode GraphWriteKind = iota
	WriteEdge
)

// GraphWrite is the sink's input command, either an idempotent node upsert
// or an idempotent edge upsert. The sink holds the single switch over Kind.
type GraphWrite struct {
	Kind GraphWriteKind

	// WriteNode fields.
	Label string
	ID    string

	// WriteEdge fields.
	FromLabel string
	FromID    string
	Rel       string
	ToLabel   string
	ToID      string

	Props map[string]any
}

// UpsertNode builds a node-upsert command.
func UpsertNode(label, id string, props map[string]any) GraphWrite {
	return GraphWrite{
		Kind:  WriteNode,
		Label: label,
		ID:    id,
		Props: props,
	}
}

// UpsertEdge builds a directed edge-upsert command between two nodes
// identified by label and id.
func UpsertEdge(fromLabel, fromID, rel, toLabel, toID string, props map[string]any) GraphWrite {
	return GraphWrite{
		Kind:      WriteEdge,
		FromLabel: fromLabel,
		FromID:    fromID,
		Rel:       rel,
		ToLabel:   toLabel,
		ToID:      toID,
		Props:     props,
	}
}
