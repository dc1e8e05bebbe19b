// Package extract turns chunk text into canonical concepts. It composes a
// model-based NER path with a regex heuristic path so that domain tokens
// the tagger misses (identifiers, acronyms) still reach the graph.
package extract

import (
	"fmt"

	"github.com/OFFIS-RIT/congraph/pkg/logger"
	"github.com/OFFIS-RIT/congraph/pkg/model"
)

// Extractor produces the concept set of a chunk. The zero value is ready to
// use; one Extractor may be shared by concurrent workers.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the concepts mentioned in the chunk, unique by lemma.
// Annotation failures on a single chunk degrade to the heuristic path; the
// caller never sees an error for an individual chunk.
func (e *Extractor) Extract(chunk model.Chunk) []model.Concept {
	heuristic := extractHeuristic(chunk.Text)

	ner, err := e.annotate(chunk.Text)
	if err != nil {
		logger.Warn("Annotation failed, falling back to heuristics", "chunk_id", chunk.ChunkID, "err", err)
		return heuristic
	}

	if len(ner) == 0 {
		return heuristic
	}

	seen := make(map[string]struct{}, len(ner))
	for _, c := range ner {
		seen[c.Lemma] = struct{}{}
	}

	// The tagger's output wins. Heuristic identifier shapes it cannot
	// produce are still added; the remaining heuristic origins duplicate
	// what the tagger already covers.
	concepts := ner
	for _, c := range heuristic {
		if c.Origin != OriginCamelCase && c.Origin != OriginAcronym {
			continue
		}
		if _, ok := seen[c.Lemma]; ok {
			continue
		}
		seen[c.Lemma] = struct{}{}
		concepts = append(concepts, c)
	}

	return concepts
}

// annotate wraps the NER path so a panicking tagger degrades like an error.
func (e *Extractor) annotate(text string) (concepts []model.Concept, err error) {
	defer func() {
		if r := recover(); r != nil {
			concepts = nil
			err = fmt.Errorf("annotator panicked: %v", r)
		}
	}()
	return extractNER(text)
}
