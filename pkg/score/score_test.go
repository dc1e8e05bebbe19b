package score

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestScorer(gen Generator, minConfidence float64) *Scorer {
	return NewScorer(NewScorerParams{
		Generator:     gen,
		PredicateSet:  []string{"is_a", "part_of", "related_to"},
		MinConfidence: minConfidence,
	})
}

func TestScoreKeepsConfidentVerdict(t *testing.T) {
	gen := &stubGenerator{response: `{"predicate":"is_a","confidence":0.9,"evidence":"quote","ref":"r"}`}
	scorer := newTestScorer(gen, 0.65)

	relation, ok := scorer.Score(context.Background(), testCandidate())
	if !ok {
		t.Fatal("expected a kept relation")
	}
	if relation.Predicate != "is_a" || relation.Confidence != 0.9 {
		t.Errorf("relation = %+v", relation)
	}
	if relation.A.Lemma != "api" || relation.B.Lemma != "rest" {
		t.Errorf("pair not preserved: %+v", relation)
	}
}

func TestScoreThresholdBoundaryInclusive(t *testing.T) {
	gen := &stubGenerator{response: `{"predicate":"is_a","confidence":0.65,"evidence":"quote","ref":"r"}`}
	scorer := newTestScorer(gen, 0.65)

	if _, ok := scorer.Score(context.Background(), testCandidate()); !ok {
		t.Error("verdict at exactly minConfidence must be kept")
	}
}

func TestScoreDropsBelowThreshold(t *testing.T) {
	gen := &stubGenerator{response: `{"predicate":"is_a","confidence":0.64,"evidence":"quote","ref":"r"}`}
	scorer := newTestScorer(gen, 0.65)

	if _, ok := scorer.Score(context.Background(), testCandidate()); ok {
		t.Error("verdict below minConfidence must be dropped")
	}
}

func TestScoreUnknownPredicateCollapsesBeforeThreshold(t *testing.T) {
	gen := &stubGenerator{response: `{"predicate":"no_such_predicate","confidence":0.9,"evidence":"quote","ref":"r"}`}
	scorer := newTestScorer(gen, 0.65)

	relation, ok := scorer.Score(context.Background(), testCandidate())
	if !ok {
		t.Fatal("expected a kept relation")
	}
	if relation.Predicate != "related_to" {
		t.Errorf("predicate = %q, want related_to", relation.Predicate)
	}
}

func TestScoreDropsOnGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("all attempts failed")}
	scorer := newTestScorer(gen, 0.65)

	if _, ok := scorer.Score(context.Background(), testCandidate()); ok {
		t.Error("generator failure must drop the candidate")
	}
}

func TestBuildPrompt(t *testing.T) {
	candidate := testCandidate()
	prompt := BuildPrompt(candidate, []string{"is_a", "part_of", "related_to"})

	for _, want := range []string{"api", "rest", candidate.Evidence, "is_a, part_of, related_to", "predicate", "confidence", "evidence", "ref"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
