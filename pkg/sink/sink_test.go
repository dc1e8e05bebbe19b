package sink

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/OFFIS-RIT/congraph/pkg/model"
)

func nodeWrite(i int) model.GraphWrite {
	return model.UpsertNode("Concept", fmt.Sprintf("id-%d", i), nil)
}

func TestSinkFlushesAtBatchSize(t *testing.T) {
	var batches [][]model.GraphWrite
	s := newSink(3, 1, func(ctx context.Context, batch []model.GraphWrite) error {
		batches = append(batches, batch)
		return nil
	})

	ctx := context.Background()
	for i := 0; i < 7; i++ {
		if err := s.Write(ctx, nodeWrite(i)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	if len(batches) != 2 {
		t.Fatalf("got %d batches before close, want 2", len(batches))
	}
	for _, batch := range batches {
		if len(batch) != 3 {
			t.Errorf("batch size = %d, want 3", len(batch))
		}
	}

	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(batches) != 3 {
		t.Fatalf("got %d batches after close, want 3", len(batches))
	}
	if len(batches[2]) != 1 {
		t.Errorf("residual batch size = %d, want 1", len(batches[2]))
	}
}

func TestSinkCloseWithEmptyBuffer(t *testing.T) {
	commits := 0
	s := newSink(10, 1, func(ctx context.Context, batch []model.GraphWrite) error {
		commits++
		return nil
	})

	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if commits != 0 {
		t.Errorf("empty sink committed %d batches, want 0", commits)
	}
}

func TestSinkRetriesFailedCommit(t *testing.T) {
	attempts := 0
	s := newSink(2, 3, func(ctx context.Context, batch []model.GraphWrite) error {
		attempts++
		if attempts < 2 {
			return errors.New("deadlock detected")
		}
		return nil
	})

	ctx := context.Background()
	_ = s.Write(ctx, nodeWrite(0))
	if err := s.Write(ctx, nodeWrite(1)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("commit attempts = %d, want 2", attempts)
	}
}

func TestSinkFailsAfterRetriesExhausted(t *testing.T) {
	attempts := 0
	s := newSink(1, 2, func(ctx context.Context, batch []model.GraphWrite) error {
		attempts++
		return errors.New("server unavailable")
	})

	err := s.Write(context.Background(), nodeWrite(0))
	if err == nil {
		t.Fatal("expected an error after exhausted retries")
	}
	if attempts != 2 {
		t.Errorf("commit attempts = %d, want 2", attempts)
	}
}

func TestSinkWholeBatchRetried(t *testing.T) {
	var sizes []int
	fail := true
	s := newSink(2, 2, func(ctx context.Context, batch []model.GraphWrite) error {
		sizes = append(sizes, len(batch))
		if fail {
			fail = false
			return errors.New("transient")
		}
		return nil
	})

	ctx := context.Background()
	_ = s.Write(ctx, nodeWrite(0))
	if err := s.Write(ctx, nodeWrite(1)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if len(sizes) != 2 || sizes[0] != 2 || sizes[1] != 2 {
		t.Errorf("batch sizes = %v, want [2 2]", sizes)
	}
}
