// Package chain реализует ReAct цикл агента-планировщика.
//
// Цикл: LLM решает какие инструменты вызвать → инструменты выполняются
// через tools.Registry → результаты возвращаются модели → повтор,
// пока модель не ответит текстом или не исчерпан лимит итераций.
//
// Каждое добавленное в диалог сообщение публикуется как снимок
// (events.EventState), так что UI видит промежуточные состояния.
package chain

import (
	"context"
	"errors"
	"time"

	"github.com/ilkoid/poncho-travel/pkg/llm"
)

// ErrMaxIterations - модель не дала финальный ответ за отведённые итерации.
var ErrMaxIterations = errors.New("max iterations exceeded")

// Chain представляет исполняемую цепочку.
type Chain interface {
	Execute(ctx context.Context, input ChainInput) (ChainOutput, error)
}

// ChainInput - входные данные для выполнения цепочки.
type ChainInput struct {
	// Messages - диалог без системного промпта (его добавляет цикл).
	Messages []llm.Message
}

// ChainOutput - результат выполнения цепочки.
type ChainOutput struct {
	// RunID - идентификатор выполнения (в логах и событиях)
	RunID string

	// Result - финальный ответ агента
	Result string

	// Iterations - количество обращений к LLM
	Iterations int

	// Duration - общее время выполнения
	Duration time.Duration

	// FinalState - полная история сообщений
	FinalState []llm.Message
}
