package pipeline

import (
	"reflect"
	"testing"

	"github.com/OFFIS-RIT/congraph/pkg/model"
)

func TestParseRecord(t *testing.T) {
	line := `{"chunkId":"c1","docId":"d1","span":{"start":0,"end":9},"text":"Neo4j is great","sourceUri":"s","hash":"h"}`

	chunk, err := ParseRecord(line)
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}

	want := model.Chunk{
		ChunkID:   "c1",
		DocID:     "d1",
		Span:      model.Span{Start: 0, End: 9},
		Text:      "Neo4j is great",
		SourceURI: "s",
		Hash:      "h",
	}
	if !reflect.DeepEqual(chunk, want) {
		t.Errorf("ParseRecord() = %+v, want %+v", chunk, want)
	}
}

func TestParseRecordUnknownFieldsIgnored(t *testing.T) {
	line := `{"chunkId":"c1","docId":"d1","span":{"start":1,"end":2},"text":"t","sourceUri":"s","hash":"h","extra":true,"weight":3}`
	if _, err := ParseRecord(line); err != nil {
		t.Errorf("ParseRecord() with unknown fields error = %v", err)
	}
}

func TestParseRecordFailures(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"not json", "not json at all"},
		{"empty object", "{}"},
		{"missing chunkId", `{"docId":"d","span":{"start":0,"end":1},"text":"t","sourceUri":"s","hash":"h"}`},
		{"empty chunkId", `{"chunkId":"","docId":"d","span":{"start":0,"end":1},"text":"t","sourceUri":"s","hash":"h"}`},
		{"missing span", `{"chunkId":"c","docId":"d","text":"t","sourceUri":"s","hash":"h"}`},
		{"partial span", `{"chunkId":"c","docId":"d","span":{"start":0},"text":"t","sourceUri":"s","hash":"h"}`},
		{"missing text", `{"chunkId":"c","docId":"d","span":{"start":0,"end":1},"sourceUri":"s","hash":"h"}`},
		{"missing hash", `{"chunkId":"c","docId":"d","span":{"start":0,"end":1},"text":"t","sourceUri":"s"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRecord(tt.line); err == nil {
				t.Errorf("ParseRecord(%q) expected error", tt.line)
			}
		})
	}
}

func TestRecordRoundTrip(t *testing.T) {
	chunk := model.Chunk{
		ChunkID:   "c42",
		DocID:     "doc",
		Span:      model.Span{Start: 10, End: 240},
		Text:      "Graph databases store relationships natively.",
		SourceURI: "file:///tmp/doc.txt",
		Hash:      "abcdef",
	}

	line, err := EncodeRecord(chunk)
	if err != nil {
		t.Fatalf("EncodeRecord() error = %v", err)
	}
	parsed, err := ParseRecord(line)
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}
	if !reflect.DeepEqual(parsed, chunk) {
		t.Errorf("round trip = %+v, want %+v", parsed, chunk)
	}
}
