package debug

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ilkoid/poncho-travel/pkg/events"
)

// Recorder собирает трейс из событий агента и сохраняет его в JSON файл.
//
// Потокобезопасен.
type Recorder struct {
	mu sync.Mutex

	config  RecorderConfig
	trace   Trace
	started time.Time

	// pending - вызовы, для которых ещё нет результата
	pending map[string]ToolExecution

	visitedTools map[string]struct{}
	errors       []string
}

// RecorderConfig конфигурация для создания Recorder.
type RecorderConfig struct {
	// LogsDir - директория для сохранения трейсов
	LogsDir string

	// IncludeToolResults - включать результаты инструментов
	IncludeToolResults bool

	// MaxResultSize - максимальный размер результата, 0 без ограничений
	MaxResultSize int
}

// NewRecorder создает Recorder; LogsDir создаётся при необходимости.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	now := time.Now()
	return &Recorder{
		config: cfg,
		trace: Trace{
			RunID:     fmt.Sprintf("debug_%s", now.Format("20060102_150405")),
			Timestamp: now,
		},
		started:      now,
		pending:      make(map[string]ToolExecution),
		visitedTools: make(map[string]struct{}),
	}, nil
}

// Start начинает запись запроса.
func (r *Recorder) Start(userQuery string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.trace.UserQuery = userQuery
	r.trace.Timestamp = time.Now()
	r.started = r.trace.Timestamp
}

// Observe учитывает одно событие агента.
func (r *Recorder) Observe(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch data := ev.Data.(type) {
	case events.StateData:
		if data.RunID != "" {
			r.trace.RunID = data.RunID
		}
	case events.ThinkingData:
		r.trace.Iterations = append(r.trace.Iterations, Iteration{Number: data.Iteration})
	case events.ToolCallData:
		r.pending[data.CallID] = ToolExecution{CallID: data.CallID, Name: data.ToolName, Args: data.Args}
	case events.ToolResultData:
		r.recordTool(data)
	case events.MessageData:
		if it := r.current(); it != nil && ev.Type == events.EventMessage {
			it.Reply = data.Content
		}
		if ev.Type == events.EventDone {
			r.trace.FinalResult = data.Content
		}
	case events.ErrorData:
		r.trace.Error = data.Err.Error()
		r.errors = append(r.errors, data.Err.Error())
	}
}

func (r *Recorder) recordTool(data events.ToolResultData) {
	exec, ok := r.pending[data.CallID]
	if !ok {
		exec = ToolExecution{CallID: data.CallID, Name: data.ToolName}
	}
	delete(r.pending, data.CallID)

	exec.Duration = data.Duration.Milliseconds()
	exec.Success = !data.Failed
	if !exec.Success {
		r.errors = append(r.errors, fmt.Sprintf("Tool %s: %s", exec.Name, data.Result))
	}

	if r.config.IncludeToolResults {
		exec.Result = data.Result
		if r.config.MaxResultSize > 0 && len(exec.Result) > r.config.MaxResultSize {
			exec.Result = exec.Result[:r.config.MaxResultSize] + "... (truncated)"
			exec.ResultTruncated = true
		}
	}

	r.visitedTools[exec.Name] = struct{}{}
	if it := r.current(); it != nil {
		it.ToolsExecuted = append(it.ToolsExecuted, exec)
	}
}

// current возвращает текущую итерацию (под мьютексом).
func (r *Recorder) current() *Iteration {
	if len(r.trace.Iterations) == 0 {
		return nil
	}
	return &r.trace.Iterations[len(r.trace.Iterations)-1]
}

// Trace возвращает копию накопленного трейса со свежей статистикой.
func (r *Recorder) Trace() Trace {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buildSummary()
	t := r.trace
	t.Iterations = append([]Iteration(nil), r.trace.Iterations...)
	return t
}

// Finalize сохраняет трейс и возвращает путь к файлу.
func (r *Recorder) Finalize() (string, error) {
	t := r.Trace()

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal trace: %w", err)
	}

	filePath := filepath.Join(r.config.LogsDir, t.RunID+".json")
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write trace: %w", err)
	}
	return filePath, nil
}

func (r *Recorder) buildSummary() {
	r.trace.Duration = time.Since(r.started).Milliseconds()

	summary := Summary{
		TotalLLMCalls: len(r.trace.Iterations),
		VisitedTools:  make([]string, 0, len(r.visitedTools)),
		Errors:        append([]string(nil), r.errors...),
	}
	for _, it := range r.trace.Iterations {
		summary.TotalToolCalls += len(it.ToolsExecuted)
	}
	for name := range r.visitedTools {
		summary.VisitedTools = append(summary.VisitedTools, name)
	}
	sort.Strings(summary.VisitedTools)
	r.trace.Summary = summary
}

// Tee пропускает события через Recorder и сохраняет трейс при закрытии in.
//
// onSaved получает путь к файлу или ошибку записи (может быть nil).
// Если ctx отменён, события дочитываются без пересылки.
func Tee(ctx context.Context, rec *Recorder, in <-chan events.Event, onSaved func(string, error)) <-chan events.Event {
	out := make(chan events.Event)
	go func() {
		defer close(out)
		forward := true
		for ev := range in {
			rec.Observe(ev)
			if !forward {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				forward = false
			}
		}
		path, err := rec.Finalize()
		if onSaved != nil {
			onSaved(path, err)
		}
	}()
	return out
}
