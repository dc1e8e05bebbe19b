// Package score judges relation candidates with the generative service and
// keeps verdicts that clear the confidence threshold.
package score

import (
	"context"

	"github.com/OFFIS-RIT/congraph/pkg/logger"
	"github.com/OFFIS-RIT/congraph/pkg/model"
)

// Generator abstracts the LLM client so the scorer can be exercised
// without a live endpoint.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Scorer scores relation candidates. A candidate the endpoint cannot judge
// (exhausted retries) is dropped silently; that is an expected per-candidate
// outcome, not a pipeline failure.
type Scorer struct {
	gen           Generator
	predicates    []string
	predicateSet  map[string]struct{}
	minConfidence float64
}

// NewScorerParams contains configuration for creating a Scorer.
type NewScorerParams struct {
	Generator     Generator
	PredicateSet  []string
	MinConfidence float64
}

// NewScorer creates a Scorer with the configured predicate vocabulary and
// confidence threshold.
func NewScorer(params NewScorerParams) *Scorer {
	set := make(map[string]struct{}, len(params.PredicateSet))
	for _, p := range params.PredicateSet {
		set[p] = struct{}{}
	}
	return &Scorer{
		gen:           params.Generator,
		predicates:    params.PredicateSet,
		predicateSet:  set,
		minConfidence: params.MinConfidence,
	}
}

// Score judges one candidate. The boolean reports whether a relation was
// kept; false covers both endpoint failure and a verdict below the
// threshold.
func (s *Scorer) Score(ctx context.Context, candidate model.RelationCandidate) (model.ScoredRelation, bool) {
	prompt := BuildPrompt(candidate, s.predicates)

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		logger.Debug(
			"Dropping candidate after failed generation",
			"a", candidate.A.Lemma,
			"b", candidate.B.Lemma,
			"err", err,
		)
		return model.ScoredRelation{}, false
	}

	verdict := ParseVerdict(text, candidate, s.predicateSet)
	if verdict.Confidence < s.minConfidence {
		return model.ScoredRelation{}, false
	}

	return model.ScoredRelation{
		A:          candidate.A,
		B:          candidate.B,
		Predicate:  verdict.Predicate,
		Confidence: verdict.Confidence,
		Evidence:   verdict.Evidence,
	}, true
}
