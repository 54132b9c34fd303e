// Package debug записывает трейсы выполнения планировщика в JSON файлы.
//
// Трейс собирается из потока events.Event, так что Recorder ничего
// не знает о ReAct цикле и может подключаться к любому потребителю.
package debug

import "time"

// Trace - полный трейс одного запроса к агенту.
type Trace struct {
	// RunID - идентификатор запуска из событий (используется в имени файла)
	RunID string `json:"run_id"`

	// Timestamp - время начала выполнения
	Timestamp time.Time `json:"timestamp"`

	// UserQuery - исходный запрос пользователя
	UserQuery string `json:"user_query"`

	// Duration - общая длительность выполнения в миллисекундах
	Duration int64 `json:"duration_ms"`

	// Iterations - итерации ReAct цикла
	Iterations []Iteration `json:"iterations"`

	Summary Summary `json:"summary"`

	// FinalResult - финальный ответ агента
	FinalResult string `json:"final_result,omitempty"`

	// Error - ошибка если выполнение завершилось неудачно
	Error string `json:"error,omitempty"`
}

// Iteration - одна итерация: ответ модели и выполненные инструменты.
type Iteration struct {
	Number        int             `json:"iteration"`
	Reply         string          `json:"reply,omitempty"`
	ToolsExecuted []ToolExecution `json:"tools_executed,omitempty"`
}

// ToolExecution описывает выполнение инструмента.
type ToolExecution struct {
	CallID          string `json:"call_id"`
	Name            string `json:"name"`
	Args            string `json:"args,omitempty"`
	Result          string `json:"result,omitempty"`
	ResultTruncated bool   `json:"result_truncated,omitempty"`
	Duration        int64  `json:"duration_ms"`
	Success         bool   `json:"success"`
}

// Summary - агрегированная статистика выполнения.
type Summary struct {
	TotalLLMCalls  int      `json:"total_llm_calls"`
	TotalToolCalls int      `json:"total_tool_calls"`
	VisitedTools   []string `json:"visited_tools"`
	Errors         []string `json:"errors,omitempty"`
}
