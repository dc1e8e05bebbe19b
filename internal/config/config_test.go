package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalConfig = `
graph:
  uri: neo4j+s://graph.example.com:7687
  user: neo4j
  password: secret
llm:
  endpoint: http://localhost:11434
  model: llama3
`

func TestLoadMinimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Graph.URI != "neo4j+s://graph.example.com:7687" {
		t.Errorf("graph uri = %q", cfg.Graph.URI)
	}
	if cfg.Graph.BatchSize != 100 || cfg.Graph.MaxRetries != 3 {
		t.Errorf("graph defaults = %+v", cfg.Graph)
	}
	if cfg.LLM.Timeout.Duration != 60*time.Second {
		t.Errorf("llm timeout = %v", cfg.LLM.Timeout.Duration)
	}
	if cfg.Relation.LLM.MinConfidence != 0.65 {
		t.Errorf("minConfidence = %v", cfg.Relation.LLM.MinConfidence)
	}
	if len(cfg.Relation.LLM.PredicateSet) == 0 {
		t.Error("predicate set should have defaults")
	}
	if cfg.Pipeline.Parallelism != 4 {
		t.Errorf("parallelism = %d", cfg.Pipeline.Parallelism)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
  temperature: 0.4
  timeout: 30s
  maxRetries: 5
relation:
  llm:
    predicateSet: [is_a, causes]
    minConfidence: 0.8
  cooccur:
    window: chunk
    minPmi: 1.5
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.Temperature != 0.4 {
		t.Errorf("temperature = %v", cfg.LLM.Temperature)
	}
	if cfg.LLM.Timeout.Duration != 30*time.Second {
		t.Errorf("timeout = %v", cfg.LLM.Timeout.Duration)
	}
	if cfg.LLM.MaxRetries != 5 {
		t.Errorf("maxRetries = %d", cfg.LLM.MaxRetries)
	}
	if len(cfg.Relation.LLM.PredicateSet) != 2 || cfg.Relation.LLM.PredicateSet[0] != "is_a" {
		t.Errorf("predicateSet = %v", cfg.Relation.LLM.PredicateSet)
	}
	if cfg.Relation.LLM.MinConfidence != 0.8 {
		t.Errorf("minConfidence = %v", cfg.Relation.LLM.MinConfidence)
	}
	if cfg.Relation.Cooccur.MinPmi != 1.5 {
		t.Errorf("minPmi = %v", cfg.Relation.Cooccur.MinPmi)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GRAPH_URI", "neo4j+s://other.example.com:7687")
	t.Setenv("GRAPH_PASSWORD", "from-env")
	t.Setenv("LLM_ENDPOINT", "http://llm.internal:11434")

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Graph.URI != "neo4j+s://other.example.com:7687" {
		t.Errorf("graph uri = %q, want env override", cfg.Graph.URI)
	}
	if cfg.Graph.Password != "from-env" {
		t.Errorf("password = %q, want env override", cfg.Graph.Password)
	}
	if cfg.LLM.Endpoint != "http://llm.internal:11434" {
		t.Errorf("endpoint = %q, want env override", cfg.LLM.Endpoint)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	if _, err := Load(writeConfig(t, `
graph:
  uri: neo4j://localhost
llm:
  endpoint: http://localhost:11434
`)); err == nil {
		t.Error("expected error for missing required values")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	if _, err := Load(writeConfig(t, minimalConfig+`
  timeout: soon
`)); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
