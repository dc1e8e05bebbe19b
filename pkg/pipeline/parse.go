package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/OFFIS-RIT/congraph/pkg/model"
)

type rawSpan struct {
	Start *int `json:"start"`
	End   *int `json:"end"`
}

type rawRecord struct {
	ChunkID   *string  `json:"chunkId"`
	DocID     *string  `json:"docId"`
	Span      *rawSpan `json:"span"`
	Text      *string  `json:"text"`
	SourceURI *string  `json:"sourceUri"`
	Hash      *string  `json:"hash"`
}

// ParseRecord decodes one input line into a Chunk. Every field of the
// record shape is required; unknown fields are ignored. The caller drops
// the record on error, the pipeline never fails on malformed input.
func ParseRecord(line string) (model.Chunk, error) {
	var raw rawRecord
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return model.Chunk{}, fmt.Errorf("malformed record: %w", err)
	}

	switch {
	case raw.ChunkID == nil || *raw.ChunkID == "":
		return model.Chunk{}, fmt.Errorf("record missing chunkId")
	case raw.DocID == nil:
		return model.Chunk{}, fmt.Errorf("record missing docId")
	case raw.Span == nil || raw.Span.Start == nil || raw.Span.End == nil:
		return model.Chunk{}, fmt.Errorf("record missing span")
	case raw.Text == nil:
		return model.Chunk{}, fmt.Errorf("record missing text")
	case raw.SourceURI == nil:
		return model.Chunk{}, fmt.Errorf("record missing sourceUri")
	case raw.Hash == nil:
		return model.Chunk{}, fmt.Errorf("record missing hash")
	}

	return model.Chunk{
		ChunkID:   *raw.ChunkID,
		DocID:     *raw.DocID,
		Span:      model.Span{Start: *raw.Span.Start, End: *raw.Span.End},
		Text:      *raw.Text,
		SourceURI: *raw.SourceURI,
		Hash:      *raw.Hash,
	}, nil
}

// EncodeRecord is the inverse of ParseRecord: it renders a chunk as one
// JSON line.
func EncodeRecord(chunk model.Chunk) (string, error) {
	data, err := json.Marshal(chunk)
	if err != nil {
		return "", fmt.Errorf("failed to encode chunk: %w", err)
	}
	return string(data), nil
}
