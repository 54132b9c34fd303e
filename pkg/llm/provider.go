// Интерфейс Провайдера через который работает всё приложение.

package llm

import "context"

// Provider - контракт для любого AI-сервиса.
//
// opts может содержать []tools.ToolDefinition (включает Function Calling)
// и любое количество GenerateOption для переопределения параметров модели.
type Provider interface {
	Generate(ctx context.Context, messages []Message, opts ...any) (Message, error)
}
