// Package llm wraps the generative HTTP endpoint used for relation scoring.
// The wire protocol is the ollama generate API: POST /api/generate with a
// prompt and options, GET /api/tags as a reachability probe.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"

	"github.com/OFFIS-RIT/congraph/internal/util"
)

// backoffUnit is the base wait for the linear retry ramp: attempt n sleeps
// n × backoffUnit before the next try.
const backoffUnit = time.Second

// probeTimeout bounds the availability pre-flight.
const probeTimeout = 5 * time.Second

// Client is a retrying client for the generative endpoint. Requests are
// admitted through a weighted semaphore so a large pipeline parallelism
// cannot overrun the model server.
type Client struct {
	model       string
	temperature float64
	timeout     time.Duration
	maxRetries  int

	reqLock *semaphore.Weighted

	client *api.Client
}

// NewClientParams contains configuration for creating a Client.
type NewClientParams struct {
	Endpoint    string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int

	MaxConcurrentRequests int64
}

// NewClient creates a client for the generative service at the given
// endpoint.
func NewClient(params NewClientParams) (*Client, error) {
	u, err := url.Parse(params.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid llm endpoint: %w", err)
	}

	if params.MaxConcurrentRequests <= 0 {
		params.MaxConcurrentRequests = 1
	}
	if params.Timeout <= 0 {
		params.Timeout = 60 * time.Second
	}
	if params.MaxRetries < 1 {
		params.MaxRetries = 1
	}

	return &Client{
		model:       params.Model,
		temperature: params.Temperature,
		timeout:     params.Timeout,
		maxRetries:  params.MaxRetries,
		reqLock:     semaphore.NewWeighted(params.MaxConcurrentRequests),
		client:      api.NewClient(u, http.DefaultClient),
	}, nil
}

// Generate sends the prompt and returns the generated text. Transport
// errors, HTTP failures and malformed responses are retried with a linear
// backoff; after maxRetries attempts the last error is returned.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return util.RetryBackoffWithContext(ctx, c.maxRetries, backoffUnit, func(ctx context.Context) (string, error) {
		return c.generateOnce(ctx, prompt)
	})
}

func (c *Client) generateOnce(ctx context.Context, prompt string) (string, error) {
	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stream := false
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": c.temperature,
		},
	}

	var response string
	err := c.client.Generate(reqCtx, req, func(res api.GenerateResponse) error {
		response += res.Response
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}

	return response, nil
}

// Available probes the endpoint's tag listing with a short deadline.
// A false result disables scoring for the run; the pipeline then builds the
// graph without relation edges.
func (c *Client) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := c.client.List(probeCtx)
	return err == nil
}
