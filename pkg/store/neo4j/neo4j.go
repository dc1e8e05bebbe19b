// Package neo4j implements the query-side GraphStore on the graph
// database driver.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/OFFIS-RIT/congraph/pkg/store"
)

const connectTimeout = 10 * time.Second

// Store answers fixed graph lookups. Each call runs in its own read
// session; the driver pools connections underneath.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewStoreParams contains configuration for creating a Store.
type NewStoreParams struct {
	URI      string
	User     string
	Password string
	Database string
}

// NewStore creates a Store and verifies connectivity. A connection failure
// here is fatal to the query surface.
func NewStore(ctx context.Context, params NewStoreParams) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(
		params.URI,
		neo4j.BasicAuth(params.User, params.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify graph connectivity: %w", err)
	}

	return &Store{
		driver:   driver,
		database: params.Database,
	}, nil
}

// Close tears down the driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Store) readSession(ctx context.Context) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeRead,
	})
}

func stringValue(record *neo4j.Record, key string) string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return ""
	}
	str, _ := value.(string)
	return str
}

func intValue(record *neo4j.Record, key string) int {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return 0
	}
	num, _ := value.(int64)
	return int(num)
}

func floatValue(record *neo4j.Record, key string) float64 {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return 0
	}
	num, _ := value.(float64)
	return num
}

func conceptFromRecord(record *neo4j.Record) store.ConceptView {
	return store.ConceptView{
		ConceptID: stringValue(record, "conceptId"),
		Lemma:     stringValue(record, "lemma"),
		Surface:   stringValue(record, "surface"),
		Origin:    stringValue(record, "origin"),
	}
}

const conceptReturn = "c.conceptId AS conceptId, c.lemma AS lemma, c.surface AS surface, c.origin AS origin"

// ConceptByID looks a concept up by its id property.
func (s *Store) ConceptByID(ctx context.Context, conceptID string) (store.ConceptView, error) {
	query := "MATCH (c:Concept {conceptId: $id}) RETURN " + conceptReturn
	return s.singleConcept(ctx, query, map[string]any{"id": conceptID})
}

// ConceptByLemma looks a concept up by its lemma. The lemma determines the
// concept id, so at most one node matches.
func (s *Store) ConceptByLemma(ctx context.Context, lemma string) (store.ConceptView, error) {
	query := "MATCH (c:Concept {lemma: $lemma}) RETURN " + conceptReturn + " LIMIT 1"
	return s.singleConcept(ctx, query, map[string]any{"lemma": lemma})
}

func (s *Store) singleConcept(ctx context.Context, query string, params map[string]any) (store.ConceptView, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return store.ConceptView{}, fmt.Errorf("concept lookup failed: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return store.ConceptView{}, fmt.Errorf("concept lookup failed: %w", err)
		}
		return store.ConceptView{}, store.ErrNotFound
	}
	return conceptFromRecord(result.Record()), nil
}

// Neighbors returns the concepts connected to the given concept by any
// relationship, with direction and confidence.
func (s *Store) Neighbors(ctx context.Context, conceptID string, limit int) ([]store.Neighbor, error) {
	if _, err := s.ConceptByID(ctx, conceptID); err != nil {
		return nil, err
	}

	session := s.readSession(ctx)
	defer session.Close(ctx)

	query := "MATCH (x:Concept {conceptId: $id})-[r]-(c:Concept) " +
		"RETURN type(r) AS rel, " +
		"CASE WHEN startNode(r) = x THEN 'out' ELSE 'in' END AS direction, " +
		"r.confidence AS confidence, " + conceptReturn + " " +
		"LIMIT $limit"
	result, err := session.Run(ctx, query, map[string]any{"id": conceptID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("neighbor lookup failed: %w", err)
	}

	neighbors := make([]store.Neighbor, 0)
	for result.Next(ctx) {
		record := result.Record()
		neighbors = append(neighbors, store.Neighbor{
			Concept:    conceptFromRecord(record),
			Rel:        stringValue(record, "rel"),
			Direction:  stringValue(record, "direction"),
			Confidence: floatValue(record, "confidence"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("neighbor lookup failed: %w", err)
	}
	return neighbors, nil
}

// Evidence returns the provenance view of a concept: the chunks that
// mention it and the scored relations touching it.
func (s *Store) Evidence(ctx context.Context, conceptID string, limit int) (store.Evidence, error) {
	concept, err := s.ConceptByID(ctx, conceptID)
	if err != nil {
		return store.Evidence{}, err
	}

	session := s.readSession(ctx)
	defer session.Close(ctx)

	mentionQuery := "MATCH (ch:Chunk)-[:MENTIONS]->(:Concept {conceptId: $id}) " +
		"RETURN ch.chunkId AS chunkId, ch.docId AS docId, ch.sourceUri AS sourceUri, ch.text AS text " +
		"LIMIT $limit"
	result, err := session.Run(ctx, mentionQuery, map[string]any{"id": conceptID, "limit": limit})
	if err != nil {
		return store.Evidence{}, fmt.Errorf("evidence lookup failed: %w", err)
	}

	mentions := make([]store.MentionEvidence, 0)
	for result.Next(ctx) {
		record := result.Record()
		mentions = append(mentions, store.MentionEvidence{
			ChunkID:   stringValue(record, "chunkId"),
			DocID:     stringValue(record, "docId"),
			SourceURI: stringValue(record, "sourceUri"),
			Text:      stringValue(record, "text"),
		})
	}
	if err := result.Err(); err != nil {
		return store.Evidence{}, fmt.Errorf("evidence lookup failed: %w", err)
	}

	relationQuery := "MATCH (x:Concept {conceptId: $id})-[r]-(c:Concept) " +
		"RETURN type(r) AS rel, r.confidence AS confidence, r.evidence AS evidence, " + conceptReturn + " " +
		"LIMIT $limit"
	result, err = session.Run(ctx, relationQuery, map[string]any{"id": conceptID, "limit": limit})
	if err != nil {
		return store.Evidence{}, fmt.Errorf("evidence lookup failed: %w", err)
	}

	relations := make([]store.RelationEvidence, 0)
	for result.Next(ctx) {
		record := result.Record()
		relations = append(relations, store.RelationEvidence{
			Predicate:  stringValue(record, "rel"),
			Other:      conceptFromRecord(record),
			Confidence: floatValue(record, "confidence"),
			Evidence:   stringValue(record, "evidence"),
		})
	}
	if err := result.Err(); err != nil {
		return store.Evidence{}, fmt.Errorf("evidence lookup failed: %w", err)
	}

	return store.Evidence{
		Concept:   concept,
		Mentions:  mentions,
		Relations: relations,
	}, nil
}

// ChunkByID looks a chunk up by its id property.
func (s *Store) ChunkByID(ctx context.Context, chunkID string) (store.ChunkView, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	query := "MATCH (ch:Chunk {chunkId: $id}) " +
		"RETURN ch.chunkId AS chunkId, ch.docId AS docId, ch.text AS text, " +
		"ch.sourceUri AS sourceUri, ch.hash AS hash, ch.spanStart AS spanStart, ch.spanEnd AS spanEnd"
	result, err := session.Run(ctx, query, map[string]any{"id": chunkID})
	if err != nil {
		return store.ChunkView{}, fmt.Errorf("chunk lookup failed: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return store.ChunkView{}, fmt.Errorf("chunk lookup failed: %w", err)
		}
		return store.ChunkView{}, store.ErrNotFound
	}

	record := result.Record()
	return store.ChunkView{
		ChunkID:   stringValue(record, "chunkId"),
		DocID:     stringValue(record, "docId"),
		Text:      stringValue(record, "text"),
		SourceURI: stringValue(record, "sourceUri"),
		Hash:      stringValue(record, "hash"),
		SpanStart: intValue(record, "spanStart"),
		SpanEnd:   intValue(record, "spanEnd"),
	}, nil
}
