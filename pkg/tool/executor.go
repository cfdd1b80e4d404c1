package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dayweave/dayweave/pkg/model"
)

// Request is one tool invocation produced by the reasoning service.
type Request struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Result is the outcome of one Request. Content is always populated: a
// failed execution yields an error-describing payload rather than a missing
// entry, so every request in a round produces exactly one result.
type Result struct {
	ID      string
	Name    string
	Content string
}

// Output converts the result into the message block appended to the
// conversation, preserving the request id mapping.
func (r Result) Output() model.ToolOutput {
	return model.ToolOutput{ID: r.ID, Name: r.Name, Content: r.Content}
}

// ItemCount reports how many items the payload carries: the length for a
// list-shaped serialization, 1 otherwise.
func (r Result) ItemCount() int {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(r.Content), &items); err != nil {
		return 1
	}
	return len(items)
}

// Executor runs a batch of independent tool requests concurrently against a
// registry. Tool calls share no mutable state, so fan-out is unbounded within
// a round; the batch is a full barrier and the slowest call paces the round.
type Executor struct {
	registry *Registry
	timeout  time.Duration
	logger   *slog.Logger
}

// NewExecutor builds an executor. timeout bounds each individual call;
// zero disables the per-call deadline.
func NewExecutor(registry *Registry, timeout time.Duration, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{registry: registry, timeout: timeout, logger: logger}
}

// ExecuteBatch dispatches every request concurrently and waits for all of
// them. Results are returned in request order regardless of completion order,
// reassociated by index into the request slice (the id travels with each
// result). Individual failures degrade to error payloads; the batch itself
// only fails with the caller's context.
func (e *Executor) ExecuteBatch(ctx context.Context, requests []Request) []Result {
	results := make([]Result, len(requests))
	var wg sync.WaitGroup
	for i := range requests {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.execute(ctx, requests[i])
		}(i)
	}
	wg.Wait()
	return results
}

func (e *Executor) execute(ctx context.Context, req Request) Result {
	result := Result{ID: req.ID, Name: req.Name}

	t, ok := e.registry.Get(req.Name)
	if !ok {
		// Soft failure: the payload tells the model what went wrong.
		result.Content = errorPayload(fmt.Errorf("unknown tool: %s", req.Name))
		e.logger.Warn("unknown tool requested", "tool", req.Name, "id", req.ID)
		return result
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	started := time.Now()
	content, err := t.Execute(ctx, req.Arguments)
	if err != nil {
		result.Content = errorPayload(err)
		e.logger.Warn("tool execution failed",
			"tool", req.Name, "id", req.ID, "duration", time.Since(started), "error", err)
		return result
	}

	result.Content = content
	e.logger.Debug("tool executed",
		"tool", req.Name, "id", req.ID, "duration", time.Since(started))
	return result
}
