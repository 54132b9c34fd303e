// Package app предоставляет переиспользуемые компоненты для инициализации
// планировщика в разных контекстах (REPL, TUI, HTTP).
//
// Вся сборка зависимостей (config → gmaps → tools → LLM → ReAct цикл)
// собрана здесь, чтобы cmd/ содержали только разбор флагов и запуск.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilkoid/poncho-travel/pkg/chain"
	"github.com/ilkoid/poncho-travel/pkg/config"
	"github.com/ilkoid/poncho-travel/pkg/gmaps"
	"github.com/ilkoid/poncho-travel/pkg/llm"
	"github.com/ilkoid/poncho-travel/pkg/models"
	"github.com/ilkoid/poncho-travel/pkg/prompt"
	"github.com/ilkoid/poncho-travel/pkg/tools"
	"github.com/ilkoid/poncho-travel/pkg/utils"
)

// Components содержит все компоненты приложения.
type Components struct {
	Config   *config.AppConfig
	Maps     *gmaps.Client
	Tools    *tools.Registry
	Models   *models.Registry
	LLM      llm.Provider
	Prompts  *prompt.PromptFile
	Cycle    *chain.ReActCycle
	ModelDef config.ModelDef
}

// ConfigPathFinder определяет стратегию поиска пути к config.yaml.
type ConfigPathFinder interface {
	FindConfigPath() string
}

// DefaultConfigPathFinder реализует стандартную стратегию поиска config.yaml.
//
// Порядок поиска:
// 1. Флаг -config (если указан)
// 2. Текущая директория
// 3. Директория бинарника
// 4. Родительские директории (для запуска из cmd/<utility>/)
//
// Если файл не найден, возвращается пустая строка и конфигурация
// строится из окружения.
type DefaultConfigPathFinder struct {
	ConfigFlag string
}

// FindConfigPath находит путь к config.yaml.
func (f *DefaultConfigPathFinder) FindConfigPath() string {
	if f.ConfigFlag != "" {
		return resolveAbsPath(f.ConfigFlag)
	}

	candidates := []string{"config.yaml"}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), "config.yaml"))
	}
	candidates = append(candidates,
		filepath.Join("..", "config.yaml"),
		filepath.Join("..", "..", "config.yaml"),
	)

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return resolveAbsPath(p)
		}
	}
	return ""
}

// InitializeConfig загружает конфигурацию.
//
// Явно указанный флагом файл обязан существовать; при автопоиске
// отсутствие файла не ошибка (config.Default из окружения).
func InitializeConfig(finder ConfigPathFinder) (*config.AppConfig, string, error) {
	cfgPath := finder.FindConfigPath()

	if f, ok := finder.(*DefaultConfigPathFinder); ok && f.ConfigFlag != "" {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config from %s: %w", cfgPath, err)
		}
		return cfg, cfgPath, nil
	}

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, cfgPath, nil
}

// InitializeTools создаёт Google Maps клиент и реестр инструментов.
//
// Используется tools-server и планировщиком. Требует ключ Maps.
func InitializeTools(cfg *config.AppConfig) (*tools.Registry, *gmaps.Client, error) {
	if err := cfg.RequireMapsKey(); err != nil {
		return nil, nil, err
	}

	client, err := gmaps.NewFromConfig(cfg.Maps)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create maps client: %w", err)
	}

	registry := tools.NewRegistry()
	if err := SetupTools(registry, client, cfg.Tools); err != nil {
		return nil, nil, err
	}

	utils.Info("tools initialized", "tools", registry.Names())
	return registry, client, nil
}

// Initialize создаёт и инициализирует все компоненты планировщика.
//
// modelName - алиас из models.definitions, пустой - default_chat.
func Initialize(cfg *config.AppConfig, modelName string) (*Components, error) {
	if err := cfg.RequireChatKey(); err != nil {
		return nil, err
	}

	registry, mapsClient, err := InitializeTools(cfg)
	if err != nil {
		return nil, err
	}

	modelRegistry, err := models.NewRegistryFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create model registry: %w", err)
	}
	provider, modelDef, actual, err := modelRegistry.GetWithFallback(modelName, cfg.Models.DefaultChat)
	if err != nil {
		return nil, err
	}

	prompts, err := prompt.LoadOrDefault(cfg.App.PromptFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	cycleCfg, err := reactConfig(cfg, prompts)
	if err != nil {
		return nil, err
	}

	cycle, err := chain.NewReActCycle(cycleCfg, provider, registry, prompts.GenerateOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create react cycle: %w", err)
	}

	utils.Info("components initialized",
		"model", actual,
		"model_name", modelDef.ModelName,
		"max_iterations", cycleCfg.MaxIterations)

	return &Components{
		Config:   cfg,
		Maps:     mapsClient,
		Tools:    registry,
		Models:   modelRegistry,
		LLM:      provider,
		Prompts:  prompts,
		Cycle:    cycle,
		ModelDef: modelDef,
	}, nil
}

// reactConfig собирает конфигурацию ReAct цикла из секций app и tools.
func reactConfig(cfg *config.AppConfig, prompts *prompt.PromptFile) (chain.ReActCycleConfig, error) {
	cycleCfg := chain.NewReActCycleConfig()
	cycleCfg.MaxIterations = cfg.App.MaxIterations

	cycleCfg.SystemPrompt = prompts.SystemPrompt()
	if cfg.App.SystemPrompt != "" {
		cycleCfg.SystemPrompt = cfg.App.SystemPrompt
	}

	toolTimeout, err := time.ParseDuration(cfg.App.ToolTimeout)
	if err != nil {
		return cycleCfg, fmt.Errorf("invalid app.tool_timeout: %w", err)
	}
	cycleCfg.ToolTimeout = toolTimeout

	cycleCfg.ToolTimeouts = make(map[string]time.Duration)
	for name, tc := range cfg.Tools {
		if tc.Timeout > 0 {
			cycleCfg.ToolTimeouts[name] = tc.Timeout
		}
	}
	return cycleCfg, nil
}

// resolveAbsPath преобразует путь в абсолютный (если это не уже абсолютный путь).
func resolveAbsPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
