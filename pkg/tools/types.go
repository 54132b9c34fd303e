// Интерфейс Tool и структуры определений.

package tools

import "context"

// JSONSchema - JSON Schema объекта аргументов инструмента.
type JSONSchema map[string]any

// ToolDefinition описывает инструмент для LLM (Function Calling API format).
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"`
}

// Tool - контракт, который должен реализовать любой инструмент.
//
// "Raw In, String Out": на вход сырой JSON аргументов от LLM,
// на выход строка, которую увидит модель. Ошибки возвращаются
// типизированными, в текст их превращает Registry.Invoke.
type Tool interface {
	Definition() ToolDefinition
	Execute(ctx context.Context, argsJSON string) (string, error)
}
