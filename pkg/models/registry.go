// Package models связывает алиасы из models.definitions с LLM провайдерами
// и проверяет, к каким моделям есть доступ у ключа (model-probe).
package models

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ilkoid/poncho-travel/pkg/config"
	"github.com/ilkoid/poncho-travel/pkg/factory"
	"github.com/ilkoid/poncho-travel/pkg/llm"
)

// ModelEntry - провайдер и определение модели, из которого он создан.
type ModelEntry struct {
	Provider llm.Provider
	Config   config.ModelDef
}

// Registry хранит провайдеров по алиасу. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]ModelEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]ModelEntry)}
}

// NewRegistryFromConfig создаёт провайдера для каждого определения модели.
//
// Алиасы обходятся по алфавиту, так что при нескольких битых
// определениях ошибка всегда про первое из них.
func NewRegistryFromConfig(cfg *config.AppConfig) (*Registry, error) {
	aliases := make([]string, 0, len(cfg.Models.Definitions))
	for alias := range cfg.Models.Definitions {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	reg := NewRegistry()
	for _, alias := range aliases {
		def := cfg.Models.Definitions[alias]
		provider, err := factory.NewLLMProvider(def)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider for model '%s': %w", alias, err)
		}
		if err := reg.Register(alias, def, provider); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register добавляет алиас. Повторная регистрация - ошибка.
func (r *Registry) Register(alias string, def config.ModelDef, provider llm.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.entries[alias]; dup {
		return fmt.Errorf("model '%s' already registered", alias)
	}
	r.entries[alias] = ModelEntry{Provider: provider, Config: def}
	return nil
}

// Get возвращает провайдера по алиасу.
func (r *Registry) Get(alias string) (llm.Provider, config.ModelDef, error) {
	entry, ok := r.lookup(alias)
	if !ok {
		return nil, config.ModelDef{}, fmt.Errorf("model '%s' not found in registry", alias)
	}
	return entry.Provider, entry.Config, nil
}

// GetWithFallback ищет requested, а если его нет - defaultModel (флаг -model
// с опечаткой не мешает запуску). Третье значение - алиас, который реально выбран.
func (r *Registry) GetWithFallback(requested, defaultModel string) (llm.Provider, config.ModelDef, string, error) {
	for _, alias := range []string{requested, defaultModel} {
		if entry, ok := r.lookup(alias); ok {
			return entry.Provider, entry.Config, alias, nil
		}
	}
	return nil, config.ModelDef{}, "", fmt.Errorf("neither requested model '%s' nor default '%s' found in registry", requested, defaultModel)
}

// ListNames - алиасы по алфавиту.
func (r *Registry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for alias := range r.entries {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) lookup(alias string) (ModelEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[alias]
	return entry, ok
}
