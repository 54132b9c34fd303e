// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Поддерживает Function Calling (tools) для интеграции с агент-системой.
// Работает только через интерфейс llm.Provider.
package openai

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/ilkoid/poncho-travel/pkg/config"
	"github.com/ilkoid/poncho-travel/pkg/llm"
	"github.com/ilkoid/poncho-travel/pkg/tools"
	"github.com/ilkoid/poncho-travel/pkg/utils"
	openai "github.com/sashabaranov/go-openai"
)

// Client реализует интерфейс llm.Provider для OpenAI-совместимых API.
type Client struct {
	api      *openai.Client
	defaults llm.GenerateOptions
}

// NewClient создает OpenAI клиент на основе конфигурации модели.
//
// Поддерживает custom BaseURL для OpenAI-совместимых провайдеров.
func NewClient(modelDef config.ModelDef) *Client {
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}
	if modelDef.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: modelDef.Timeout}
	}

	return &Client{
		api: openai.NewClientWithConfig(cfg),
		defaults: llm.GenerateOptions{
			Model:       modelDef.ModelName,
			Temperature: modelDef.Temperature,
			MaxTokens:   modelDef.MaxTokens,
		},
	}
}

// Generate выполняет запрос к API и возвращает ответ модели.
//
// opts:
//   - []tools.ToolDefinition - включает Function Calling с tool_choice=auto
//   - llm.GenerateOption - переопределяет модель, temperature, max_tokens
//
// Ошибка API возвращается обёрнутой, исходный *openai.APIError
// доступен через errors.As.
func (c *Client) Generate(ctx context.Context, messages []llm.Message, opts ...any) (llm.Message, error) {
	startTime := time.Now()
	params := llm.Apply(c.defaults, opts)

	req := openai.ChatCompletionRequest{
		Model:       params.Model,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
		Temperature: temperature(params.Temperature),
		MaxTokens:   params.MaxTokens,
	}
	for i, m := range messages {
		req.Messages[i] = mapToOpenAI(m)
	}

	for _, opt := range opts {
		switch v := opt.(type) {
		case []tools.ToolDefinition:
			if len(v) == 0 {
				continue
			}
			req.Tools = convertToolsToOpenAI(v)
			// LLM сама решает когда вызывать tools
			req.ToolChoice = "auto"
		case llm.GenerateOption:
		default:
			return llm.Message{}, fmt.Errorf("unsupported generate option type: %T", opt)
		}
	}

	utils.Debug("LLM request started",
		"model", req.Model,
		"messages_count", len(req.Messages),
		"tools_count", len(req.Tools))

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		utils.Error("LLM API request failed",
			"error", err,
			"model", req.Model,
			"duration_ms", time.Since(startTime).Milliseconds())
		return llm.Message{}, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return llm.Message{}, fmt.Errorf("no choices in response")
	}

	result := mapFromOpenAI(resp.Choices[0].Message)

	utils.Info("LLM response received",
		"model", req.Model,
		"tool_calls_count", len(result.ToolCalls),
		"content_length", len(result.Content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return result, nil
}

// temperature конвертирует temperature в формат SDK.
//
// В go-openai поле помечено omitempty, и 0 не попадает в запрос
// (сервер подставит свой дефолт 1.0). Минимальное ненулевое значение
// сериализуется и эквивалентно детерминированному режиму.
func temperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// mapToOpenAI конвертирует наше внутреннее сообщение в формат SDK.
func mapToOpenAI(m llm.Message) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{
		Role:       string(m.Role),
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
		Name:       m.Name,
	}

	if len(m.ToolCalls) > 0 {
		msg.ToolCalls = make([]openai.ToolCall, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			msg.ToolCalls[i] = openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Args,
				},
			}
		}
	}
	return msg
}

// mapFromOpenAI конвертирует ответ SDK в наш формат.
func mapFromOpenAI(choice openai.ChatCompletionMessage) llm.Message {
	result := llm.Message{
		Role:    llm.Role(choice.Role),
		Content: choice.Content,
	}
	if result.Role == "" {
		result.Role = llm.RoleAssistant
	}

	if len(choice.ToolCalls) > 0 {
		result.ToolCalls = make([]llm.ToolCall, len(choice.ToolCalls))
		for i, tc := range choice.ToolCalls {
			result.ToolCalls[i] = llm.ToolCall{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: tc.Function.Arguments,
			}
		}
	}
	return result
}

// convertToolsToOpenAI конвертирует определения инструментов
// в формат OpenAI Function Calling.
//
// ToolDefinition.Parameters уже является JSON Schema объектом
// и передаётся в SDK без изменений.
func convertToolsToOpenAI(defs []tools.ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, len(defs))

	for i, def := range defs {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		}
	}

	return result
}
