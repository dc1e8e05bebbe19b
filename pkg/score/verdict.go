package score

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/OFFIS-RIT/congraph/internal/util"
	"github.com/OFFIS-RIT/congraph/pkg/model"
)

const fallbackEvidenceLen = 100

var (
	rePredicate  = regexp.MustCompile(`(?i)predicate:\s*([a-z_]+)`)
	reConfidence = regexp.MustCompile(`(?i)confidence:\s*([0-9.]+)`)
	reEvidence   = regexp.MustCompile(`evidence:\s*"([^"]+)"`)
)

// ParseVerdict turns the generated text into a verdict. The first JSON
// object substring is decoded strictly, then with repair; if both fail, the
// verdict is reassembled from key-value fragments in the raw text with
// conservative defaults. The returned verdict always has its confidence
// clamped to [0,1] and a predicate from the allowed set (unknown predicates
// collapse to "related_to").
func ParseVerdict(text string, candidate model.RelationCandidate, predicates map[string]struct{}) model.LlmVerdict {
	verdict, ok := parseJSONVerdict(text)
	if !ok {
		verdict = parseLooseVerdict(text, candidate)
	}

	verdict.Confidence = clamp01(verdict.Confidence)
	if _, allowed := predicates[verdict.Predicate]; !allowed {
		verdict.Predicate = "related_to"
	}
	if verdict.Ref == "" {
		verdict.Ref = candidate.A.Lemma + "_" + verdict.Predicate + "_" + candidate.B.Lemma
	}

	return verdict
}

func parseJSONVerdict(text string) (model.LlmVerdict, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return model.LlmVerdict{}, false
	}
	raw := text[start : end+1]

	var verdict model.LlmVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err == nil {
		return verdict, true
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return model.LlmVerdict{}, false
	}
	if err := json.Unmarshal([]byte(repaired), &verdict); err != nil {
		return model.LlmVerdict{}, false
	}
	return verdict, true
}

func parseLooseVerdict(text string, candidate model.RelationCandidate) model.LlmVerdict {
	verdict := model.LlmVerdict{
		Predicate:  "related_to",
		Confidence: 0.5,
	}

	if m := rePredicate.FindStringSubmatch(text); m != nil {
		verdict.Predicate = strings.ToLower(m[1])
	}
	if m := reConfidence.FindStringSubmatch(text); m != nil {
		if parsed, err := strconv.ParseFloat(m[1], 64); err == nil {
			verdict.Confidence = parsed
		}
	}
	if m := reEvidence.FindStringSubmatch(text); m != nil {
		verdict.Evidence = m[1]
	}
	if verdict.Evidence == "" {
		verdict.Evidence = util.TruncateRunes(candidate.Evidence, fallbackEvidenceLen)
	}

	verdict.Ref = candidate.A.Lemma + "_" + verdict.Predicate + "_" + candidate.B.Lemma
	return verdict
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
