// Базовые типы - универсальный язык общения с моделями.
package llm

// Role - роль автора сообщения.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message - одно сообщение диалога.
//
// Для RoleTool заполнены ToolCallID и Name, Content содержит результат инструмента.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall - запрос модели на вызов инструмента.
type ToolCall struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Args string `json:"args"` // Сырой JSON аргументов
}

// NewSystem, NewUser - конструкторы для частых случаев.
func NewSystem(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func NewUser(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewToolResult оборачивает результат инструмента в сообщение для модели.
func NewToolResult(call ToolCall, result string) Message {
	return Message{
		Role:       RoleTool,
		Content:    result,
		ToolCallID: call.ID,
		Name:       call.Name,
	}
}
