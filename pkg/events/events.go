// Package events предоставляет интерфейсы для реализации Port & Adapter паттерна.
//
// Это Port (интерфейс) для подписки на события от агента-планировщика.
// Позволяет подключать любые UI (TUI, REPL, HTTP) без изменения библиотечной логики.
//
// # Basic Usage
//
//	// В библиотеке (pkg/chain/):
//	emitter := events.NewChanEmitter(16)
//
//	// В UI (internal/ui/):
//	for event := range emitter.Subscribe().Events() {
//	    switch event.Type {
//	    case events.EventState:
//	        ui.printLast(event.Data.(events.StateData).Last())
//	    case events.EventDone:
//	        ui.showAnswer(event.Data)
//	    }
//	}
//
// # Thread Safety
//
// Все реализации интерфейсов должны быть thread-safe.
package events

import (
	"context"
	"time"

	"github.com/ilkoid/poncho-travel/pkg/llm"
)

// EventType представляет тип события от агента.
type EventType string

const (
	// EventThinking отправляется перед каждым запросом к LLM.
	EventThinking EventType = "thinking"

	// EventState отправляется после каждого добавленного в диалог сообщения.
	// Несёт снимок всего диалога на этот момент.
	EventState EventType = "state"

	// EventToolCall отправляется когда агент вызывает инструмент.
	EventToolCall EventType = "tool_call"

	// EventToolResult отправляется когда инструмент вернул результат.
	EventToolResult EventType = "tool_result"

	// EventMessage отправляется когда агент генерирует текстовое сообщение.
	EventMessage EventType = "message"

	// EventError отправляется при ошибке провайдера или исчерпании итераций.
	EventError EventType = "error"

	// EventDone отправляется когда агент завершил работу.
	EventDone EventType = "done"
)

// EventData - sealed interface для данных события.
//
// Только типы из пакета events могут реализовать этот интерфейс.
type EventData interface {
	eventData()
}

// ThinkingData содержит данные для EventThinking.
type ThinkingData struct {
	Iteration int
}

func (ThinkingData) eventData() {}

// StateData - снимок диалога.
//
// Messages - копия, её можно хранить и изменять без влияния на агента.
type StateData struct {
	RunID    string
	Messages []llm.Message
}

func (StateData) eventData() {}

// Last возвращает последнее сообщение снимка.
func (s StateData) Last() (llm.Message, bool) {
	if len(s.Messages) == 0 {
		return llm.Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// ToolCallData содержит данные о вызове инструмента.
type ToolCallData struct {
	CallID   string
	ToolName string
	Args     string
}

func (ToolCallData) eventData() {}

// ToolResultData содержит результат выполнения инструмента.
type ToolResultData struct {
	CallID   string
	ToolName string
	Result   string
	Failed   bool // Result - текст ошибки инструмента
	Duration time.Duration
}

func (ToolResultData) eventData() {}

// MessageData содержит данные для EventMessage и EventDone.
type MessageData struct {
	Content string
}

func (MessageData) eventData() {}

// ErrorData содержит данные для EventError.
type ErrorData struct {
	Err error
}

func (ErrorData) eventData() {}

// Event представляет событие от агента.
//
// Для каждого EventType существует соответствующий тип данных:
//   - EventThinking: ThinkingData
//   - EventState: StateData
//   - EventToolCall: ToolCallData
//   - EventToolResult: ToolResultData
//   - EventMessage, EventDone: MessageData
//   - EventError: ErrorData
type Event struct {
	Type      EventType
	Data      EventData
	Timestamp time.Time
}

// New создаёт событие с текущим временем.
func New(t EventType, data EventData) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now()}
}

// Emitter - это Port для отправки событий.
//
// Все операции должны уважать context.Context.
type Emitter interface {
	// Emit отправляет событие. Если context отменён, событие отбрасывается.
	Emit(ctx context.Context, event Event)
}

// Subscriber позволяет читать события из канала.
type Subscriber interface {
	// Events возвращает read-only канал событий.
	//
	// Канал закрывается при закрытии источника.
	Events() <-chan Event

	// Close освобождает ресурсы подписчика.
	Close()
}
