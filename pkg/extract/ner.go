package extract

import (
	"regexp"
	"strings"

	prose "github.com/jdkato/prose/v2"

	"github.com/OFFIS-RIT/congraph/pkg/model"
)

var nounTags = map[string]struct{}{
	"NN":   {},
	"NNS":  {},
	"NNP":  {},
	"NNPS": {},
}

var reNumeric = regexp.MustCompile(`^[0-9.,]+$`)

// nerLabel strips the IOB prefix from a token's entity label and reports
// whether the token is inside a named-entity span at all.
func nerLabel(label string) (string, bool) {
	if label == "" || label == "O" {
		return "", false
	}
	if len(label) > 2 && (label[0] == 'B' || label[0] == 'I') && label[1] == '-' {
		return label[2:], true
	}
	return label, true
}

// extractNER annotates the text with tokenization, part-of-speech tags and
// named-entity labels and emits two concept families: multi-token entity
// spans (origin NER_<tag>) and single-token nouns outside any entity span
// (origin POS_<tag>).
func extractNER(text string) ([]model.Concept, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	tokens := doc.Tokens()

	var concepts []model.Concept
	seen := make(map[string]struct{})

	add := func(surface, origin string) {
		lemma := NormalizeLemma(surface)
		if lemma == "" {
			return
		}
		if _, ok := seen[lemma]; ok {
			return
		}
		seen[lemma] = struct{}{}
		concepts = append(concepts, model.NewConcept(lemma, surface, origin))
	}

	// Entity spans: contiguous tokens sharing the same entity tag.
	i := 0
	for i < len(tokens) {
		tag, inside := nerLabel(tokens[i].Label)
		if !inside {
			i++
			continue
		}
		j := i + 1
		for j < len(tokens) {
			nextTag, nextInside := nerLabel(tokens[j].Label)
			if !nextInside || nextTag != tag {
				break
			}
			j++
		}

		parts := make([]string, 0, j-i)
		for k := i; k < j; k++ {
			parts = append(parts, tokens[k].Text)
		}
		surface := strings.Join(parts, " ")
		if len([]rune(surface)) > 2 && !isStopWord(surface) {
			add(surface, "NER_"+tag)
		}
		i = j
	}

	// Single-token nouns outside every entity span.
	for _, token := range tokens {
		if _, inside := nerLabel(token.Label); inside {
			continue
		}
		if _, ok := nounTags[token.Tag]; !ok {
			continue
		}
		if len([]rune(token.Text)) <= 2 {
			continue
		}
		if reNumeric.MatchString(token.Text) {
			continue
		}
		add(token.Text, "POS_"+token.Tag)
	}

	return concepts, nil
}
