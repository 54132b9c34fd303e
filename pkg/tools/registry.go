// Реестр для хранения, поиска и безопасного вызова инструментов.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/ilkoid/poncho-travel/pkg/utils"
)

// ErrToolNotFound возвращается при обращении к незарегистрированному инструменту.
var ErrToolNotFound = errors.New("tool not found")

// ToolMessager - ошибка, которая знает свой текст для агента.
//
// Ошибки SDK (gmaps) реализуют этот интерфейс, остальные
// превращаются в "Error: <описание>".
type ToolMessager interface {
	ToolMessage() string
}

// Registry - потокобезопасное хранилище инструментов.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry создает новый пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// validateToolDefinition проверяет что ToolDefinition соответствует JSON Schema.
//
// Валидирует:
//   - Name не пустой
//   - Parameters является JSON объектом с type == "object"
//   - Parameters.required (если есть) является массивом строк
func validateToolDefinition(def ToolDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if def.Parameters == nil {
		return fmt.Errorf("tool '%s': parameters cannot be nil", def.Name)
	}

	// Сериализуем и парсим обратно: так []string и []interface{} выглядят одинаково
	paramsJSON, err := json.Marshal(def.Parameters)
	if err != nil {
		return fmt.Errorf("tool '%s': failed to marshal parameters: %w", def.Name, err)
	}

	var params map[string]interface{}
	if err := json.Unmarshal(paramsJSON, &params); err != nil {
		return fmt.Errorf("tool '%s': parameters must be a JSON object, got: %s", def.Name, string(paramsJSON))
	}

	typeStr, ok := params["type"].(string)
	if !ok {
		return fmt.Errorf("tool '%s': parameters must have string 'type' field", def.Name)
	}
	if typeStr != "object" {
		return fmt.Errorf("tool '%s': parameters.type must be 'object', got: '%s'", def.Name, typeStr)
	}

	if requiredVal, exists := params["required"]; exists {
		required, ok := requiredVal.([]interface{})
		if !ok {
			return fmt.Errorf("tool '%s': parameters.required must be an array", def.Name)
		}
		for i, item := range required {
			if _, ok := item.(string); !ok {
				return fmt.Errorf("tool '%s': parameters.required[%d] must be a string, got: %T", def.Name, i, item)
			}
		}
	}

	return nil
}

// Register добавляет инструмент в реестр с валидацией схемы.
//
// Повторная регистрация под тем же именем - ошибка.
func (r *Registry) Register(tool Tool) error {
	def := tool.Definition()

	if err := validateToolDefinition(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool '%s' already registered", def.Name)
	}
	r.tools[def.Name] = tool
	return nil
}

// Get ищет инструмент по имени.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool '%s': %w", name, ErrToolNotFound)
	}
	return tool, nil
}

// Names возвращает отсортированный список имён инструментов.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetDefinitions возвращает список всех определений для отправки в LLM.
//
// Порядок детерминирован (по имени).
func (r *Registry) GetDefinitions() []ToolDefinition {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]ToolDefinition, 0, len(names))
	for _, name := range names {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Invoke вызывает инструмент и всегда возвращает текст для агента.
//
// Ошибки и паники инструмента не пробрасываются выше: они превращаются
// в строку через ErrorText, чтобы цикл агента продолжал работу.
func (r *Registry) Invoke(ctx context.Context, name, argsJSON string) string {
	text, _ := r.InvokeResult(ctx, name, argsJSON)
	return text
}

// InvokeResult работает как Invoke, но дополнительно сообщает,
// получен ли текст из ошибки инструмента (failed = true).
//
// Тексты ошибок бывают без префикса "Error" (например, "Weather API error: HTTP 500"),
// поэтому признак сбоя нельзя восстановить по самому тексту.
func (r *Registry) InvokeResult(ctx context.Context, name, argsJSON string) (text string, failed bool) {
	tool, err := r.Get(name)
	if err != nil {
		return ErrorText(err), true
	}

	defer func() {
		if p := recover(); p != nil {
			utils.Error("tool panicked", "tool", name, "panic", p, "stack", string(debug.Stack()))
			text, failed = ErrorText(fmt.Errorf("%v", p)), true
		}
	}()

	out, err := tool.Execute(ctx, argsJSON)
	if err != nil {
		utils.Warn("tool returned error", "tool", name, "error", err)
		return ErrorText(err), true
	}
	return out, false
}

// ErrorText превращает ошибку в текст, понятный агенту.
func ErrorText(err error) string {
	var tm ToolMessager
	if errors.As(err, &tm) {
		return tm.ToolMessage()
	}
	return "Error: " + err.Error()
}
