package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/OFFIS-RIT/congraph/internal/config"
	"github.com/OFFIS-RIT/congraph/internal/util"
	"github.com/OFFIS-RIT/congraph/pkg/chunker"
	"github.com/OFFIS-RIT/congraph/pkg/extract"
	"github.com/OFFIS-RIT/congraph/pkg/llm"
	"github.com/OFFIS-RIT/congraph/pkg/logger"
	"github.com/OFFIS-RIT/congraph/pkg/logger/console"
	"github.com/OFFIS-RIT/congraph/pkg/pipeline"
	"github.com/OFFIS-RIT/congraph/pkg/score"
	"github.com/OFFIS-RIT/congraph/pkg/sink"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	inputDir := flag.String("input", "", "directory of chunk record files (bounded source)")
	queueName := flag.String("queue", "", "queue to consume chunk records from (streaming source)")
	prepareDir := flag.String("prepare", "", "directory of raw text files to turn into chunk records")
	flag.Parse()

	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *prepareDir != "" {
		if err := prepare(*prepareDir, cfg); err != nil {
			logger.Fatal("Preparation failed", "err", err)
		}
		return
	}

	source, err := buildSource(*inputDir, *queueName, cfg)
	if err != nil {
		logger.Fatal("Invalid source", "err", err)
	}

	llmClient, err := llm.NewClient(llm.NewClientParams{
		Endpoint:              cfg.LLM.Endpoint,
		Model:                 cfg.LLM.Model,
		Temperature:           cfg.LLM.Temperature,
		Timeout:               cfg.LLM.Timeout.Duration,
		MaxRetries:            cfg.LLM.MaxRetries,
		MaxConcurrentRequests: int64(cfg.Pipeline.Parallelism),
	})
	if err != nil {
		logger.Fatal("Could not create LLM client", "err", err)
	}

	// Scoring is enabled only when the endpoint answers the pre-flight
	// probe; a silent endpoint degrades the run to a graph without
	// relation edges.
	var scorer *score.Scorer
	if llmClient.Available(ctx) {
		scorer = score.NewScorer(score.NewScorerParams{
			Generator:     llmClient,
			PredicateSet:  cfg.Relation.LLM.PredicateSet,
			MinConfidence: cfg.Relation.LLM.MinConfidence,
		})
	} else {
		logger.Warn("LLM endpoint unreachable, running without relation scoring", "endpoint", cfg.LLM.Endpoint)
	}

	sinkFactory := func(ctx context.Context) (pipeline.GraphSink, error) {
		return sink.Open(ctx, sink.OpenSinkParams{
			URI:        cfg.Graph.URI,
			User:       cfg.Graph.User,
			Password:   cfg.Graph.Password,
			Database:   cfg.Graph.Database,
			BatchSize:  cfg.Graph.BatchSize,
			MaxRetries: cfg.Graph.MaxRetries,
		})
	}

	p := pipeline.NewPipeline(pipeline.NewPipelineParams{
		Extractor:   extract.NewExtractor(),
		Scorer:      scorer,
		SinkFactory: sinkFactory,
		Parallelism: cfg.Pipeline.Parallelism,
	})

	if err := p.Run(ctx, source); err != nil {
		logger.Fatal("Pipeline failed", "err", err)
	}
}

func buildSource(inputDir, queueName string, cfg config.Config) (pipeline.Source, error) {
	switch {
	case inputDir != "" && queueName != "":
		return nil, fmt.Errorf("-input and -queue are mutually exclusive")
	case inputDir != "":
		return &pipeline.FileSource{Dir: inputDir}, nil
	case queueName != "":
		if cfg.AMQP.URL == "" {
			return nil, fmt.Errorf("a queue source requires amqp.url (or AMQP_URL)")
		}
		return &pipeline.AMQPSource{URL: cfg.AMQP.URL, Queue: queueName}, nil
	default:
		return nil, fmt.Errorf("one of -input or -queue is required")
	}
}

var rawExtensions = map[string]struct{}{
	".txt": {},
	".md":  {},
}

// prepare converts raw text files into chunk records on stdout, ready to
// be fed back through -input.
func prepare(dir string, cfg config.Config) error {
	c, err := chunker.NewChunker(chunker.NewChunkerParams{
		Encoder:   cfg.Chunker.Encoder,
		MaxTokens: cfg.Chunker.MaxTokens,
	})
	if err != nil {
		return err
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := rawExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		docID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		chunks, err := c.ChunkText(docID, path, string(data))
		if err != nil {
			return fmt.Errorf("failed to chunk %s: %w", path, err)
		}

		for _, chunk := range chunks {
			line, err := pipeline.EncodeRecord(chunk)
			if err != nil {
				return err
			}
			fmt.Println(line)
		}

		logger.Info("Prepared file", "path", path, "chunks", len(chunks))
		return nil
	})
}
