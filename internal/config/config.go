// Package config loads the service configuration from a YAML file and
// applies environment overrides. Connection endpoints and credentials can
// always be supplied through the environment so secrets never have to live
// in the configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"

	"github.com/OFFIS-RIT/congraph/internal/util"
)

// Duration wraps time.Duration so it can be written as "60s" in YAML.
type Duration struct {
	time.Duration
}

// UnmarshalYAML decodes a duration string like "30s" or "2m".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

// GraphConfig holds graph database connection and sink settings.
type GraphConfig struct {
	URI        string `yaml:"uri" validate:"required"`
	User       string `yaml:"user" validate:"required"`
	Password   string `yaml:"password" validate:"required"`
	Database   string `yaml:"database"`
	BatchSize  int    `yaml:"batchSize" validate:"gt=0"`
	MaxRetries int    `yaml:"maxRetries" validate:"gt=0"`
}

// LLMConfig holds the generative service settings.
type LLMConfig struct {
	Endpoint    string   `yaml:"endpoint" validate:"required,url"`
	Model       string   `yaml:"model" validate:"required"`
	Temperature float64  `yaml:"temperature"`
	Timeout     Duration `yaml:"timeout"`
	MaxRetries  int      `yaml:"maxRetries" validate:"gte=1"`
}

// CooccurConfig holds co-occurrence settings. Window and MinPmi are
// recognized but the per-chunk pair stage does not apply PMI filtering.
type CooccurConfig struct {
	Window string  `yaml:"window"`
	MinPmi float64 `yaml:"minPmi"`
}

// RelationLLMConfig holds the scorer's predicate vocabulary and threshold.
type RelationLLMConfig struct {
	PredicateSet  []string `yaml:"predicateSet" validate:"min=1"`
	MinConfidence float64  `yaml:"minConfidence" validate:"gte=0,lte=1"`
}

// RelationConfig groups relation discovery settings.
type RelationConfig struct {
	Cooccur CooccurConfig     `yaml:"cooccur"`
	LLM     RelationLLMConfig `yaml:"llm"`
}

// PipelineConfig holds pipeline-level settings.
type PipelineConfig struct {
	Parallelism int `yaml:"parallelism" validate:"gte=1"`
}

// ChunkerConfig holds settings for the chunk preparation mode.
type ChunkerConfig struct {
	MaxTokens int    `yaml:"maxTokens" validate:"gt=0"`
	Encoder   string `yaml:"encoder" validate:"required"`
}

// ServerConfig holds query surface settings.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// AMQPConfig holds the streaming source settings.
type AMQPConfig struct {
	URL string `yaml:"url"`
}

// Config is the full service configuration.
type Config struct {
	Graph    GraphConfig    `yaml:"graph"`
	LLM      LLMConfig      `yaml:"llm"`
	Relation RelationConfig `yaml:"relation"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Chunker  ChunkerConfig  `yaml:"chunker"`
	Server   ServerConfig   `yaml:"server"`
	AMQP     AMQPConfig     `yaml:"amqp"`
}

// Default returns a configuration with every optional value populated.
// Required values (graph URI and password, LLM endpoint and model) stay empty
// and must come from the file or the environment; the graph user defaults to
// "neo4j".
func Default() Config {
	return Config{
		Graph: GraphConfig{
			User:       "neo4j",
			BatchSize:  100,
			MaxRetries: 3,
		},
		LLM: LLMConfig{
			Temperature: 0.1,
			Timeout:     Duration{60 * time.Second},
			MaxRetries:  3,
		},
		Relation: RelationConfig{
			Cooccur: CooccurConfig{
				Window: "chunk",
				MinPmi: 0,
			},
			LLM: RelationLLMConfig{
				PredicateSet:  []string{"is_a", "part_of", "related_to", "causes", "used_for", "depends_on"},
				MinConfidence: 0.65,
			},
		},
		Pipeline: PipelineConfig{
			Parallelism: 4,
		},
		Chunker: ChunkerConfig{
			MaxTokens: 300,
			Encoder:   "cl100k_base",
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

// Load reads the YAML file at path (optional, "" skips the file), applies
// environment overrides and validates the result. A missing required value
// is a fatal configuration error for the caller.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := util.GetEnv("GRAPH_URI"); v != "" {
		cfg.Graph.URI = v
	}
	if v := util.GetEnv("GRAPH_USER"); v != "" {
		cfg.Graph.User = v
	}
	if v := util.GetEnv("GRAPH_PASSWORD"); v != "" {
		cfg.Graph.Password = v
	}
	if v := util.GetEnv("GRAPH_DATABASE"); v != "" {
		cfg.Graph.Database = v
	}
	if v := util.GetEnv("LLM_ENDPOINT"); v != "" {
		cfg.LLM.Endpoint = v
	}
	if v := util.GetEnv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := util.GetEnv("AMQP_URL"); v != "" {
		cfg.AMQP.URL = v
	}
	if v := util.GetEnv("PORT"); v != "" {
		cfg.Server.Port = v
	}
}
