package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/OFFIS-RIT/congraph/pkg/logger"
)

// Source produces raw records, one line each, into out. Implementations
// deliver bytes exactly as read and never parse. A bounded source returns
// nil once exhausted; a streaming source runs until the context is
// canceled.
type Source interface {
	Stream(ctx context.Context, out chan<- string) error
}

// maxRecordSize bounds a single input line.
const maxRecordSize = 4 * 1024 * 1024

// FileSource walks a directory for record files and emits one record per
// line. Bounded.
type FileSource struct {
	Dir string
}

var recordExtensions = map[string]struct{}{
	".jsonl":  {},
	".ndjson": {},
}

// Stream walks the directory in lexical order and streams every line of
// every record file.
func (s *FileSource) Stream(ctx context.Context, out chan<- string) error {
	return filepath.WalkDir(s.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := recordExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		return s.streamFile(ctx, path, out)
	})
}

func (s *FileSource) streamFile(ctx context.Context, path string, out chan<- string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open record file: %w", err)
	}
	defer file.Close()

	logger.Debug("Reading record file", "path", path)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxRecordSize)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- line:
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read record file %s: %w", path, err)
	}
	return nil
}
