package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/ilkoid/poncho-travel/pkg/llm"
	"github.com/ilkoid/poncho-travel/pkg/tools"
	"github.com/ilkoid/poncho-travel/pkg/utils"
)

// ToolResult - результат выполнения одного инструмента.
type ToolResult struct {
	CallID   string
	Name     string
	Args     string
	Result   string
	Duration time.Duration
	TimedOut bool
	Failed   bool // Инструмент вернул ошибку, упал или не уложился в timeout
}

// executeToolCall выполняет один tool call через Registry.InvokeResult.
//
// Ошибки не пробрасываются, результатом всегда является текст.
// Инструмент выполняется в отдельной goroutine: если он не уложился
// в timeout, агент получает текст о таймауте и продолжает работу.
func executeToolCall(ctx context.Context, registry *tools.Registry, tc llm.ToolCall, timeout time.Duration) ToolResult {
	start := time.Now()
	result := ToolResult{CallID: tc.ID, Name: tc.Name, Args: tc.Args}

	cleanArgs := utils.CleanJsonBlock(tc.Args)

	toolCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		text   string
		failed bool
	}
	resultChan := make(chan outcome, 1)
	go func() {
		text, failed := registry.InvokeResult(toolCtx, tc.Name, cleanArgs)
		resultChan <- outcome{text: text, failed: failed}
	}()

	select {
	case out := <-resultChan:
		result.Result = out.text
		result.Failed = out.failed
	case <-toolCtx.Done():
		result.TimedOut = true
		result.Failed = true
		if toolCtx.Err() == context.DeadlineExceeded {
			result.Result = fmt.Sprintf("Error: tool %q exceeded timeout of %v", tc.Name, timeout)
		} else {
			result.Result = "Error: tool execution was cancelled"
		}
		utils.Warn("tool execution timeout",
			"tool", tc.Name,
			"timeout", timeout,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	result.Duration = time.Since(start)
	return result
}
