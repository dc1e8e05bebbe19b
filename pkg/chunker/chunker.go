// Package chunker turns raw text into spec-shaped chunk records: the
// offline front half of ingestion for sources that are not already
// chunked. Sentences are packed into token-bounded chunks.
package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkoukk/tiktoken-go"

	"github.com/OFFIS-RIT/congraph/pkg/model"
)

// Chunker packs sentences into chunks of at most MaxTokens tokens. A single
// sentence longer than MaxTokens is not split; it becomes a chunk of its own.
type Chunker struct {
	maxTokens int
	encoder   *tiktoken.Tiktoken
}

// NewChunkerParams contains configuration for creating a Chunker.
type NewChunkerParams struct {
	// Encoder names the tiktoken encoding, e.g. "cl100k_base".
	Encoder   string
	MaxTokens int
}

// NewChunker creates a Chunker.
func NewChunker(params NewChunkerParams) (*Chunker, error) {
	if params.MaxTokens <= 0 {
		params.MaxTokens = 300
	}
	enc, err := tiktoken.GetEncoding(params.Encoder)
	if err != nil {
		return nil, fmt.Errorf("unknown token encoding %q: %w", params.Encoder, err)
	}
	return &Chunker{
		maxTokens: params.MaxTokens,
		encoder:   enc,
	}, nil
}

// ChunkText splits the text into sentences and packs them into chunks.
// Spans are character offsets into the normalized document (sentences
// joined by single spaces). Each chunk gets a fresh id and a content hash.
func (c *Chunker) ChunkText(docID, sourceURI, text string) ([]model.Chunk, error) {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	var chunks []model.Chunk
	var current []string
	currentTokens := 0
	offset := 0

	flush := func() error {
		if len(current) == 0 {
			return nil
		}
		chunkText := strings.Join(current, " ")

		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate chunk ID: %w", err)
		}

		sum := sha256.Sum256([]byte(chunkText))
		start := offset
		end := start + len([]rune(chunkText))

		chunks = append(chunks, model.Chunk{
			ChunkID:   id,
			DocID:     docID,
			Span:      model.Span{Start: start, End: end},
			Text:      chunkText,
			SourceURI: sourceURI,
			Hash:      hex.EncodeToString(sum[:]),
		})

		// The next chunk starts after this text plus the joining space.
		offset = end + 1
		current = nil
		currentTokens = 0
		return nil
	}

	for _, sentence := range sentences {
		tokens := len(c.encoder.Encode(sentence, nil, nil))
		if currentTokens+tokens > c.maxTokens && len(current) > 0 {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		current = append(current, sentence)
		currentTokens += tokens
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return chunks, nil
}

// SplitSentences splits text into sentences. Blank lines always terminate
// a sentence; within a paragraph, terminal punctuation does.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	emit := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emit()
			continue
		}
		for _, part := range splitLine(trimmed) {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(part)
			if hasTerminalPunctuation(part) {
				emit()
			}
		}
	}
	emit()

	return sentences
}

func hasTerminalPunctuation(s string) bool {
	s = strings.TrimRight(strings.TrimSpace(s), `"')]}`)
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

// splitLine cuts a line at sentence-terminal punctuation, keeping closing
// quotes and brackets attached to the sentence they end.
func splitLine(line string) []string {
	var parts []string
	var current strings.Builder

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}

		j := i + 1
		for j < len(runes) && (runes[j] == '.' || runes[j] == '!' || runes[j] == '?') {
			current.WriteRune(runes[j])
			j++
		}
		for j < len(runes) && strings.ContainsRune(`"')]}`, runes[j]) {
			current.WriteRune(runes[j])
			j++
		}

		part := strings.TrimSpace(current.String())
		if part != "" {
			parts = append(parts, part)
		}
		current.Reset()
		i = j - 1
	}

	rest := strings.TrimSpace(current.String())
	if rest != "" {
		parts = append(parts, rest)
	}
	return parts
}
