package extract

import (
	"regexp"

	"github.com/OFFIS-RIT/congraph/pkg/model"
)

// Heuristic extraction origins.
const (
	OriginHeuristicNER = "NER"
	OriginCamelCase    = "camelCase"
	OriginAcronym      = "acronym"
	OriginTechnical    = "technicalTerm"
)

var (
	reCamelCase   = regexp.MustCompile(`\b[A-Z][a-z0-9]+(?:[A-Z][a-z0-9]+)+\b`)
	reAcronym     = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
	reTechnical   = regexp.MustCompile(`\b[a-z]+(?:[A-Z][a-z0-9]+)+\b`)
	reCapitalized = regexp.MustCompile(`\b[A-Z][a-z0-9]+(?:\s+[A-Z][a-z0-9]+)*\b`)
)

type heuristicPattern struct {
	re     *regexp.Regexp
	origin string
}

// Ordered so identifier shapes win over the generic capitalized pattern when
// the same surface matches more than one (uniqueness is by lemma, first
// match keeps its origin).
var heuristicPatterns = []heuristicPattern{
	{reCamelCase, OriginCamelCase},
	{reAcronym, OriginAcronym},
	{reTechnical, OriginTechnical},
	{reCapitalized, OriginHeuristicNER},
}

// extractHeuristic scans the raw chunk text for domain token shapes the NER
// model tends to miss: CamelCase identifiers, acronyms, mixedCase technical
// terms and capitalized word sequences.
func extractHeuristic(text string) []model.Concept {
	var concepts []model.Concept
	seen := make(map[string]struct{})

	for _, pattern := range heuristicPatterns {
		for _, surface := range pattern.re.FindAllString(text, -1) {
			if pattern.origin == OriginHeuristicNER {
				if isStopWord(surface) {
					continue
				}
				if len([]rune(surface)) <= 2 {
					continue
				}
			}
			lemma := NormalizeLemma(surface)
			if lemma == "" {
				continue
			}
			if _, ok := seen[lemma]; ok {
				continue
			}
			seen[lemma] = struct{}{}
			concepts = append(concepts, model.NewConcept(lemma, surface, pattern.origin))
		}
	}

	return concepts
}
