// Package sink commits graph-write commands to the graph database in
// batched, retried, idempotent transactions.
package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/OFFIS-RIT/congraph/internal/util"
	"github.com/OFFIS-RIT/congraph/pkg/logger"
	"github.com/OFFIS-RIT/congraph/pkg/model"
)

// backoffUnit is the base wait for the linear commit-retry ramp.
const backoffUnit = time.Second

// commitFunc applies one batch transactionally.
type commitFunc func(ctx context.Context, batch []model.GraphWrite) error

// Sink buffers commands and flushes them in single transactions. One sink
// serves one pipeline worker; instances do not share buffers and flushes
// are serialized per instance. A flush that fails after all retries is
// fatal to the owning worker.
type Sink struct {
	batchSize  int
	maxRetries int

	buf []model.GraphWrite

	driver  neo4j.DriverWithContext
	session neo4j.SessionWithContext
	commit  commitFunc
}

// OpenSinkParams contains configuration for opening a Sink.
type OpenSinkParams struct {
	URI      string
	User     string
	Password string
	Database string

	BatchSize  int
	MaxRetries int
}

// Open establishes a driver and a session pinned to the configured
// database, and runs a smoke query. Any failure here is fatal: the worker
// must not start against a database it cannot reach.
func Open(ctx context.Context, params OpenSinkParams) (*Sink, error) {
	driver, err := neo4j.NewDriverWithContext(
		params.URI,
		neo4j.BasicAuth(params.User, params.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph driver: %w", err)
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: params.Database,
		AccessMode:   neo4j.AccessModeWrite,
	})

	result, err := session.Run(ctx, "RETURN 1", nil)
	if err == nil {
		_, err = result.Consume(ctx)
	}
	if err != nil {
		_ = session.Close(ctx)
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("graph smoke test failed: %w", err)
	}

	s := newSink(params.BatchSize, params.MaxRetries, nil)
	s.driver = driver
	s.session = session
	s.commit = s.commitBatch
	return s, nil
}

// newSink builds a sink around a commit function. Tests substitute their
// own commit to exercise batching and retry without a database.
func newSink(batchSize, maxRetries int, commit commitFunc) *Sink {
	if batchSize <= 0 {
		batchSize = 100
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Sink{
		batchSize:  batchSize,
		maxRetries: maxRetries,
		buf:        make([]model.GraphWrite, 0, batchSize),
		commit:     commit,
	}
}

// Write buffers one command and flushes when the buffer is full.
func (s *Sink) Write(ctx context.Context, write model.GraphWrite) error {
	s.buf = append(s.buf, write)
	if len(s.buf) >= s.batchSize {
		return s.flush(ctx)
	}
	return nil
}

// Flush commits the buffered commands, if any.
func (s *Sink) Flush(ctx context.Context) error {
	return s.flush(ctx)
}

// Close flushes the residual buffer and tears down session and driver.
func (s *Sink) Close(ctx context.Context) error {
	flushErr := s.flush(ctx)

	if s.session != nil {
		if err := s.session.Close(ctx); err != nil && flushErr == nil {
			flushErr = fmt.Errorf("failed to close session: %w", err)
		}
		s.session = nil
	}
	if s.driver != nil {
		if err := s.driver.Close(ctx); err != nil && flushErr == nil {
			flushErr = fmt.Errorf("failed to close driver: %w", err)
		}
		s.driver = nil
	}

	return flushErr
}

func (s *Sink) flush(ctx context.Context) error {
	if len(s.buf) == 0 {
		return nil
	}
	batch := s.buf
	s.buf = make([]model.GraphWrite, 0, s.batchSize)

	err := util.RetryErrBackoffWithContext(ctx, s.maxRetries, backoffUnit, func(ctx context.Context) error {
		if err := s.commit(ctx, batch); err != nil {
			logger.Warn("Batch commit failed", "size", len(batch), "err", err)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit batch of %d commands: %w", len(batch), err)
	}

	logger.Debug("Committed batch", "size", len(batch))
	return nil
}

// commitBatch applies the whole batch inside one explicit transaction. On
// any error the transaction is rolled back and the batch stays eligible
// for retry.
func (s *Sink) commitBatch(ctx context.Context, batch []model.GraphWrite) error {
	tx, err := s.session.BeginTransaction(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	now := time.Now()
	for _, write := range batch {
		query, params := commandCypher(write, now)
		if _, err := tx.Run(ctx, query, params); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to apply command: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
