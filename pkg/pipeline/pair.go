package pipeline

import (
	"github.com/OFFIS-RIT/congraph/internal/util"
	"github.com/OFFIS-RIT/congraph/pkg/model"
)

// evidenceLen is how much chunk text travels with a candidate to the
// scorer.
const evidenceLen = 500

// BuildCandidates enumerates the unordered concept pairs of a chunk. A
// chunk with fewer than two distinct concepts yields no candidates. Pair
// order is canonical: the concept with the smaller ConceptID is A. The
// extraction result is shared with the mention stage, so concepts are
// computed once per chunk.
func BuildCandidates(chunk model.Chunk, concepts []model.Concept) []model.RelationCandidate {
	if len(concepts) < 2 {
		return nil
	}

	evidence := util.TruncateRunes(chunk.Text, evidenceLen)

	candidates := make([]model.RelationCandidate, 0, len(concepts)*(len(concepts)-1)/2)
	for i := 0; i < len(concepts); i++ {
		for j := i + 1; j < len(concepts); j++ {
			a, b := concepts[i], concepts[j]
			if b.ConceptID < a.ConceptID {
				a, b = b, a
			}
			candidates = append(candidates, model.RelationCandidate{
				CoOccurrence: model.CoOccurrence{
					A:        a,
					B:        b,
					WindowID: chunk.ChunkID,
					Freq:     1,
				},
				Evidence: evidence,
			})
		}
	}

	return candidates
}
