// Package pipeline wires the extraction dataflow: records from a source are
// parsed into chunks, chunks are mapped to concepts and relation
// candidates, candidates are scored, and everything is materialized into
// graph-write commands committed by per-worker sinks.
package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/OFFIS-RIT/congraph/pkg/extract"
	"github.com/OFFIS-RIT/congraph/pkg/logger"
	"github.com/OFFIS-RIT/congraph/pkg/model"
	"github.com/OFFIS-RIT/congraph/pkg/score"
)

// GraphSink commits graph-write commands. Each pipeline worker owns one
// instance; implementations are not required to be safe for concurrent
// writers.
type GraphSink interface {
	Write(ctx context.Context, write model.GraphWrite) error
	Close(ctx context.Context) error
}

// SinkFactory opens a fresh sink for one worker. An error here is fatal to
// the run.
type SinkFactory func(ctx context.Context) (GraphSink, error)

// Pipeline is the staged dataflow. Stages are data-parallel by chunk over
// Parallelism workers.
type Pipeline struct {
	extractor   *extract.Extractor
	scorer      *score.Scorer
	newSink     SinkFactory
	parallelism int
}

// NewPipelineParams contains configuration for creating a Pipeline.
type NewPipelineParams struct {
	Extractor *extract.Extractor

	// Scorer may be nil; the pipeline then builds the graph without
	// relation edges (the normal degraded mode when the LLM endpoint is
	// unreachable).
	Scorer *score.Scorer

	SinkFactory SinkFactory
	Parallelism int
}

// NewPipeline creates a Pipeline.
func NewPipeline(params NewPipelineParams) *Pipeline {
	if params.Parallelism < 1 {
		params.Parallelism = 1
	}
	return &Pipeline{
		extractor:   params.Extractor,
		scorer:      params.Scorer,
		newSink:     params.SinkFactory,
		parallelism: params.Parallelism,
	}
}

type runStats struct {
	records   atomic.Int64
	malformed atomic.Int64
	chunks    atomic.Int64
	concepts  atomic.Int64
	relations atomic.Int64
}

// Run consumes the source until it is exhausted or the context is
// canceled. Per-record and per-chunk problems are logged and skipped;
// a sink that cannot commit after retries aborts the run with an error.
func (p *Pipeline) Run(ctx context.Context, source Source) error {
	runID, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate run ID: %w", err)
	}

	logger.Info("[Pipeline] Starting run", "run_id", runID, "parallelism", p.parallelism, "scoring", p.scorer != nil)

	stats := &runStats{}
	records := make(chan string, p.parallelism*2)

	eg, gCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(records)
		if err := source.Stream(gCtx, records); err != nil {
			return fmt.Errorf("source failed: %w", err)
		}
		return nil
	})

	for i := 0; i < p.parallelism; i++ {
		eg.Go(func() error {
			return p.worker(gCtx, records, stats)
		})
	}

	err = eg.Wait()

	logger.Info(
		"[Pipeline] Run finished",
		"run_id", runID,
		"records", stats.records.Load(),
		"malformed", stats.malformed.Load(),
		"chunks", stats.chunks.Load(),
		"concepts", stats.concepts.Load(),
		"relations", stats.relations.Load(),
	)

	return err
}

// worker owns one sink for its whole lifetime. The sink is closed (and its
// residual batch flushed) even when the worker exits on cancellation.
func (p *Pipeline) worker(ctx context.Context, records <-chan string, stats *runStats) error {
	sink, err := p.newSink(ctx)
	if err != nil {
		return fmt.Errorf("failed to open sink: %w", err)
	}

	var workerErr error
	for line := range records {
		if ctx.Err() != nil {
			break
		}
		stats.records.Add(1)

		chunk, err := ParseRecord(line)
		if err != nil {
			stats.malformed.Add(1)
			logger.Warn("Dropping malformed record", "err", err)
			continue
		}

		if err := p.processChunk(ctx, chunk, sink, stats); err != nil {
			workerErr = err
			break
		}
	}

	// Close flushes the residual batch. Use a fresh context so buffered
	// writes still commit after cancellation.
	closeErr := sink.Close(context.WithoutCancel(ctx))
	if workerErr != nil {
		return workerErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close sink: %w", closeErr)
	}
	return nil
}

// processChunk emits the writes of one chunk in order: chunk node, concept
// nodes, mention edges, then relation edges once scoring completes.
func (p *Pipeline) processChunk(ctx context.Context, chunk model.Chunk, sink GraphSink, stats *runStats) error {
	concepts := p.extractor.Extract(chunk)
	stats.chunks.Add(1)
	stats.concepts.Add(int64(len(concepts)))

	if err := sink.Write(ctx, ChunkNode(chunk)); err != nil {
		return err
	}
	for _, concept := range concepts {
		if err := sink.Write(ctx, ConceptNode(concept)); err != nil {
			return err
		}
	}
	for _, concept := range concepts {
		if err := sink.Write(ctx, MentionEdge(chunk.ChunkID, concept)); err != nil {
			return err
		}
	}

	if p.scorer == nil {
		return nil
	}

	for _, candidate := range BuildCandidates(chunk, concepts) {
		relation, ok := p.scorer.Score(ctx, candidate)
		if !ok {
			continue
		}
		stats.relations.Add(1)
		if err := sink.Write(ctx, RelationEdge(relation)); err != nil {
			return err
		}
	}

	return nil
}
