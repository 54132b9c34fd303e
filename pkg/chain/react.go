package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ilkoid/poncho-travel/pkg/events"
	"github.com/ilkoid/poncho-travel/pkg/llm"
	"github.com/ilkoid/poncho-travel/pkg/tools"
	"github.com/ilkoid/poncho-travel/pkg/utils"
)

// streamBuffer - размер буфера канала событий Stream.
const streamBuffer = 16

// terminalGrace - сколько ждать читателя для EventDone/EventError,
// когда контекст запуска уже истёк или отменён.
const terminalGrace = 5 * time.Second

// ReActCycle - реализация ReAct (Reasoning + Acting) паттерна.
//
// Иммутабелен после создания: каждый Execute/Stream создаёт свой
// ChainContext, так что параллельные выполнения безопасны.
type ReActCycle struct {
	provider llm.Provider
	registry *tools.Registry
	config   ReActCycleConfig
	genOpts  []any
}

// NewReActCycle создаёт ReAct цикл.
//
// genOpts (llm.GenerateOption) передаются провайдеру при каждом вызове.
func NewReActCycle(config ReActCycleConfig, provider llm.Provider, registry *tools.Registry, genOpts ...llm.GenerateOption) (*ReActCycle, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid react config: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("llm provider is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}

	opts := make([]any, 0, len(genOpts))
	for _, o := range genOpts {
		opts = append(opts, o)
	}

	return &ReActCycle{
		provider: provider,
		registry: registry,
		config:   config,
		genOpts:  opts,
	}, nil
}

// Execute выполняет цикл до финального ответа без публикации событий.
func (c *ReActCycle) Execute(ctx context.Context, input ChainInput) (ChainOutput, error) {
	return c.run(ctx, input, nil)
}

// Stream запускает цикл в отдельной goroutine и возвращает канал событий.
//
// Первое событие - снимок начального диалога, далее снимок после каждого
// добавленного сообщения. Последнее событие - EventDone или EventError,
// после чего канал закрывается. Отмена ctx останавливает цикл.
func (c *ReActCycle) Stream(ctx context.Context, input ChainInput) <-chan events.Event {
	emitter := events.NewChanEmitter(streamBuffer)

	go func() {
		defer emitter.Close()
		_, _ = c.run(ctx, input, emitter)
	}()

	return emitter.Subscribe().Events()
}

// run - общий цикл для Execute и Stream. emitter может быть nil.
func (c *ReActCycle) run(ctx context.Context, input ChainInput, emitter events.Emitter) (ChainOutput, error) {
	start := time.Now()
	runID := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	emit := func(t events.EventType, data events.EventData) {
		if emitter != nil {
			emitter.Emit(ctx, events.New(t, data))
		}
	}
	// Завершающее событие не должно теряться из-за истёкшего ctx запуска.
	emitFinal := func(t events.EventType, data events.EventData) {
		if emitter == nil {
			return
		}
		finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), terminalGrace)
		defer cancel()
		emitter.Emit(finalCtx, events.New(t, data))
	}
	fail := func(chainCtx *ChainContext, err error) (ChainOutput, error) {
		utils.Error("react run failed", "run_id", runID, "error", err)
		emitFinal(events.EventError, events.ErrorData{Err: err})
		return ChainOutput{
			RunID:      runID,
			Iterations: chainCtx.GetCurrentIteration(),
			Duration:   time.Since(start),
			FinalState: chainCtx.GetMessages(),
		}, err
	}

	initial := make([]llm.Message, 0, len(input.Messages)+1)
	if c.config.SystemPrompt != "" {
		initial = append(initial, llm.NewSystem(c.config.SystemPrompt))
	}
	initial = append(initial, input.Messages...)

	chainCtx := NewChainContext(runID, initial)
	emit(events.EventState, events.StateData{RunID: runID, Messages: chainCtx.GetMessages()})

	utils.Info("react run started", "run_id", runID, "messages", len(initial))

	toolDefs := c.registry.GetDefinitions()

	for chainCtx.GetCurrentIteration() < c.config.MaxIterations {
		iteration := chainCtx.IncrementIteration()
		emit(events.EventThinking, events.ThinkingData{Iteration: iteration})

		opts := append([]any{toolDefs}, c.genOpts...)
		reply, err := c.provider.Generate(ctx, chainCtx.GetMessages(), opts...)
		if err != nil {
			return fail(chainCtx, fmt.Errorf("llm generate (iteration %d): %w", iteration, err))
		}
		reply.Role = llm.RoleAssistant

		snapshot := chainCtx.AppendMessage(reply)
		emit(events.EventState, events.StateData{RunID: runID, Messages: snapshot})
		if reply.Content != "" {
			emit(events.EventMessage, events.MessageData{Content: reply.Content})
		}

		if len(reply.ToolCalls) == 0 {
			emitFinal(events.EventDone, events.MessageData{Content: reply.Content})
			utils.Info("react run finished",
				"run_id", runID,
				"iterations", iteration,
				"duration_ms", time.Since(start).Milliseconds())
			return ChainOutput{
				RunID:      runID,
				Result:     reply.Content,
				Iterations: iteration,
				Duration:   time.Since(start),
				FinalState: chainCtx.GetMessages(),
			}, nil
		}

		for _, tc := range reply.ToolCalls {
			if ctx.Err() != nil {
				return fail(chainCtx, ctx.Err())
			}

			emit(events.EventToolCall, events.ToolCallData{CallID: tc.ID, ToolName: tc.Name, Args: tc.Args})
			utils.Debug("tool call", "run_id", runID, "tool", tc.Name, "args", tc.Args)

			res := executeToolCall(ctx, c.registry, tc, c.config.toolTimeout(tc.Name))

			snapshot := chainCtx.AppendMessage(llm.NewToolResult(tc, res.Result))
			emit(events.EventToolResult, events.ToolResultData{
				CallID:   tc.ID,
				ToolName: tc.Name,
				Result:   res.Result,
				Failed:   res.Failed,
				Duration: res.Duration,
			})
			emit(events.EventState, events.StateData{RunID: runID, Messages: snapshot})
		}
	}

	return fail(chainCtx, fmt.Errorf("%w (%d)", ErrMaxIterations, c.config.MaxIterations))
}
