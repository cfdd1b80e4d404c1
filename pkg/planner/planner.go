// Package planner drives the bounded conversation loop with the reasoning
// service: it submits the prompt, executes requested lookup tools
// concurrently, streams progress events to the caller, and recovers the
// structured plan list from the terminal response.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dayweave/dayweave/pkg/event"
	"github.com/dayweave/dayweave/pkg/model"
	"github.com/dayweave/dayweave/pkg/plan"
	"github.com/dayweave/dayweave/pkg/tool"
)

const (
	defaultMaxRounds    = 10
	defaultModelTimeout = 60 * time.Second
	defaultStreamBuffer = 4
	defaultLocation     = "Hyderabad"
)

// ErrRoundsExhausted reports that the reasoning service kept requesting tools
// until the round cap. The condition is fatal; the caller must start a fresh
// run.
var ErrRoundsExhausted = errors.New("planning did not converge within the round limit")

// Request is one planning invocation.
type Request struct {
	Prompt   string
	Location string
	Coords   *plan.Coords
}

// Options tunes a Planner. The zero value applies the defaults.
type Options struct {
	// MaxRounds caps the request/respond/tool round trips per run.
	MaxRounds int
	// ModelTimeout bounds each reasoning-service call. Expiry is fatal to
	// the run; the round cap alone only bounds round count, not wall clock.
	ModelTimeout time.Duration
	// StreamBuffer sizes the event channel. The producer blocks once the
	// consumer falls this far behind, which preserves emission order.
	StreamBuffer int
	Logger       *slog.Logger
}

// Planner owns no per-run state; each Run builds a fresh conversation, so a
// single Planner serves concurrent independent sessions.
type Planner struct {
	provider     model.Provider
	registry     *tool.Registry
	executor     *tool.Executor
	maxRounds    int
	modelTimeout time.Duration
	streamBuffer int
	logger       *slog.Logger
}

// New constructs a Planner over a reasoning-service provider and a tool
// registry.
func New(provider model.Provider, registry *tool.Registry, executor *tool.Executor, opts Options) (*Planner, error) {
	if provider == nil {
		return nil, errors.New("planner: provider is nil")
	}
	if registry == nil {
		return nil, errors.New("planner: registry is nil")
	}
	if executor == nil {
		return nil, errors.New("planner: executor is nil")
	}

	p := &Planner{
		provider:     provider,
		registry:     registry,
		executor:     executor,
		maxRounds:    opts.MaxRounds,
		modelTimeout: opts.ModelTimeout,
		streamBuffer: opts.StreamBuffer,
		logger:       opts.Logger,
	}
	if p.maxRounds <= 0 {
		p.maxRounds = defaultMaxRounds
	}
	if p.modelTimeout <= 0 {
		p.modelTimeout = defaultModelTimeout
	}
	if p.streamBuffer <= 0 {
		p.streamBuffer = defaultStreamBuffer
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p, nil
}

// Run starts one planning session and returns its ordered event stream. The
// stream is finite: it ends with exactly one terminal event (final_plans or
// error) and is closed afterwards. A run is not restartable; call Run again
// for a fresh conversation.
//
// Cancelling ctx aborts the in-flight reasoning call and tool batch promptly,
// as does an abandoned consumer once the buffer fills.
func (p *Planner) Run(ctx context.Context, req Request) (<-chan event.Event, error) {
	if ctx == nil {
		return nil, errors.New("planner: context is nil")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, errors.New("planner: prompt is empty")
	}

	ch := make(chan event.Event, p.streamBuffer)
	go p.run(ctx, req, ch)
	return ch, nil
}

func (p *Planner) run(ctx context.Context, req Request, ch chan<- event.Event) {
	defer close(ch)

	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	logger.Info("planning run started", "location", req.Location, "has_coords", req.Coords != nil)

	// The conversation is owned by this invocation alone and discarded when
	// the run ends.
	messages := []model.Message{model.UserMessage(buildInitialPrompt(req))}
	definitions := p.registry.Definitions()

	if !emit(ctx, ch, event.AgentStep(labelIntent)) {
		return
	}

	for round := 1; round <= p.maxRounds; round++ {
		response, err := p.complete(ctx, messages, definitions)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("run cancelled", "round", round)
				return
			}
			logger.Error("reasoning service call failed", "round", round, "error", err)
			emit(ctx, ch, event.Error(fmt.Sprintf("reasoning service: %v", err)))
			return
		}
		messages = append(messages, response)

		if !response.HasToolCalls() {
			// Terminal turn: the only success exit.
			p.finish(ctx, ch, logger, round, response.Content)
			return
		}

		logger.Info("tool round", "round", round, "requests", len(response.ToolCalls))

		// One progress label per distinct tool name; duplicates are
		// suppressed for the label only, never for execution.
		seen := make(map[string]bool, len(response.ToolCalls))
		for _, call := range response.ToolCalls {
			if seen[call.Name] {
				continue
			}
			seen[call.Name] = true
			if !emit(ctx, ch, event.AgentStep(labelForTool(call.Name))) {
				return
			}
		}

		requests := make([]tool.Request, 0, len(response.ToolCalls))
		for _, call := range response.ToolCalls {
			requests = append(requests, tool.Request{
				ID:        call.ID,
				Name:      call.Name,
				Arguments: call.Arguments,
			})
		}

		results := p.executor.ExecuteBatch(ctx, requests)
		if ctx.Err() != nil {
			logger.Info("run cancelled during tool batch", "round", round)
			return
		}

		outputs := make([]model.ToolOutput, 0, len(results))
		for _, result := range results {
			if !emit(ctx, ch, event.ToolResult(result.Name, result.ItemCount())) {
				return
			}
			outputs = append(outputs, result.Output())
		}
		messages = append(messages, model.ToolResultMessage(outputs))
	}

	// Round cap reached without a terminal turn.
	logger.Warn("round cap exhausted", "rounds", p.maxRounds)
	if !emit(ctx, ch, event.AgentStep(labelBuilding)) {
		return
	}
	emit(ctx, ch, event.Error(ErrRoundsExhausted.Error()))
}

func (p *Planner) complete(ctx context.Context, messages []model.Message, definitions []model.ToolDefinition) (model.Message, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.modelTimeout)
	defer cancel()
	return p.provider.Complete(callCtx, messages, definitions)
}

func (p *Planner) finish(ctx context.Context, ch chan<- event.Event, logger *slog.Logger, round int, text string) {
	plans, err := plan.Extract(text)
	if err != nil {
		// No re-prompt on parse failure; surface it and stop.
		logger.Error("plan extraction failed", "round", round, "error", err)
		emit(ctx, ch, event.Error(err.Error()))
		return
	}
	for i := range plans {
		if budgetErr := plans[i].CheckBudget(); budgetErr != nil {
			logger.Warn("budget breakdown mismatch", "error", budgetErr)
		}
	}
	logger.Info("planning run finished", "rounds", round, "plans", len(plans))
	emit(ctx, ch, event.FinalPlans(plans))
}

// emit delivers evt unless the caller has gone away.
func emit(ctx context.Context, ch chan<- event.Event, evt event.Event) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- evt:
		return true
	}
}
