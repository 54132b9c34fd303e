// Package agent предоставляет простой API для запуска планировщика путешествий.
//
// Пакет реализует фасад над ReActCycle: вся сборка зависимостей
// выполняется в app.Initialize, а Client умеет только отправить запрос
// и отдать результат (целиком или потоком снимков).
//
// Basic usage:
//
//	client, _ := agent.New(ctx, agent.Config{ConfigPath: "config.yaml"})
//	plan, _ := client.Run(ctx, "Toronto tomorrow, what should I wear?")
//
// Каждый вызов Run/Stream начинает новый диалог: история между
// запросами не сохраняется.
package agent

import (
	"context"
	"fmt"

	"github.com/ilkoid/poncho-travel/pkg/app"
	"github.com/ilkoid/poncho-travel/pkg/chain"
	"github.com/ilkoid/poncho-travel/pkg/debug"
	"github.com/ilkoid/poncho-travel/pkg/events"
	"github.com/ilkoid/poncho-travel/pkg/llm"
	"github.com/ilkoid/poncho-travel/pkg/prompt"
	"github.com/ilkoid/poncho-travel/pkg/tools"
	"github.com/ilkoid/poncho-travel/pkg/utils"
)

// Runner - исполняемый цикл агента (реализуется chain.ReActCycle).
type Runner interface {
	Execute(ctx context.Context, input chain.ChainInput) (chain.ChainOutput, error)
	Stream(ctx context.Context, input chain.ChainInput) <-chan events.Event
}

// Client представляет планировщик с простым API для запуска запросов.
//
// Thread-safe: запросы не разделяют состояние.
type Client struct {
	runner  Runner
	prompts *prompt.PromptFile
	tools   *tools.Registry

	// debugDir - куда писать трейсы; пустой - трейсы выключены
	debugDir string
}

// Config определяет конфигурацию для создания агента.
//
// Все поля опциональны:
//   - ConfigPath: auto-discovery (app.DefaultConfigPathFinder)
//   - Model: алиас модели, пустой - models.default_chat
//   - SystemPrompt: перекрывает app.system_prompt
//   - MaxIterations: перекрывает app.max_iterations
type Config struct {
	ConfigPath    string
	Model         string
	SystemPrompt  string
	MaxIterations int
}

// New создаёт планировщик с указанной конфигурацией.
//
// Ошибка возвращается если конфигурация не найдена/невалидна
// или не заданы ключи OpenAI и Google Maps.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	appCfg, cfgPath, err := app.InitializeConfig(&app.DefaultConfigPathFinder{ConfigFlag: cfg.ConfigPath})
	if err != nil {
		return nil, err
	}
	utils.Info("Config loaded", "path", cfgPath)

	if cfg.SystemPrompt != "" {
		appCfg.App.SystemPrompt = cfg.SystemPrompt
	}
	if cfg.MaxIterations > 0 {
		appCfg.App.MaxIterations = cfg.MaxIterations
	}

	components, err := app.Initialize(appCfg, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	client := NewWithRunner(components.Cycle, components.Prompts, components.Tools)
	if appCfg.App.Debug {
		client.SetDebugDir(appCfg.App.DebugDir)
	}
	return client, nil
}

// NewWithRunner собирает клиент из готовых компонентов.
func NewWithRunner(runner Runner, prompts *prompt.PromptFile, registry *tools.Registry) *Client {
	if prompts == nil {
		prompts = prompt.Default()
	}
	return &Client{runner: runner, prompts: prompts, tools: registry}
}

// SetDebugDir включает запись JSON трейсов каждого Stream в dir.
func (c *Client) SetDebugDir(dir string) {
	c.debugDir = dir
	utils.Info("Debug traces enabled", "dir", dir)
}

// Run отправляет запрос как есть и возвращает финальный ответ.
func (c *Client) Run(ctx context.Context, query string) (string, error) {
	out, err := c.runner.Execute(ctx, input(query))
	if err != nil {
		return "", err
	}
	return out.Result, nil
}

// Stream отправляет запрос как есть и возвращает поток событий.
//
// Канал закрывается после EventDone или EventError.
func (c *Client) Stream(ctx context.Context, query string) <-chan events.Event {
	stream := c.runner.Stream(ctx, input(query))
	if c.debugDir == "" {
		return stream
	}

	rec, err := debug.NewRecorder(debug.RecorderConfig{
		LogsDir:            c.debugDir,
		IncludeToolResults: true,
		MaxResultSize:      4000,
	})
	if err != nil {
		utils.Warn("Debug recorder disabled", "error", err)
		return stream
	}
	rec.Start(query)

	return debug.Tee(ctx, rec, stream, func(path string, err error) {
		if err != nil {
			utils.Warn("Failed to save debug trace", "error", err)
			return
		}
		utils.Info("Debug trace saved", "path", path)
	})
}

// ExampleRequest возвращает текст встроенного сценария Toronto → Chicago.
func (c *Client) ExampleRequest() (string, error) {
	return c.prompts.ExampleRequest()
}

// Example возвращает поток событий для встроенного сценария Toronto → Chicago.
func (c *Client) Example(ctx context.Context) (<-chan events.Event, error) {
	req, err := c.prompts.ExampleRequest()
	if err != nil {
		return nil, err
	}
	return c.Stream(ctx, req), nil
}

// Turn оборачивает ввод пользователя шаблоном интерактивного режима
// и возвращает поток событий.
func (c *Client) Turn(ctx context.Context, userInput string) (<-chan events.Event, error) {
	req, err := c.prompts.WrapTurn(userInput)
	if err != nil {
		return nil, err
	}
	return c.Stream(ctx, req), nil
}

// Tools возвращает имена зарегистрированных инструментов.
func (c *Client) Tools() []string {
	if c.tools == nil {
		return nil
	}
	return c.tools.Names()
}

func input(query string) chain.ChainInput {
	return chain.ChainInput{Messages: []llm.Message{llm.NewUser(query)}}
}
