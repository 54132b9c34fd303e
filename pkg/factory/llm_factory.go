// Package factory создает LLM провайдеров по определениям моделей из config.yaml.
package factory

import (
	"fmt"

	"github.com/ilkoid/poncho-travel/pkg/config"
	"github.com/ilkoid/poncho-travel/pkg/llm"
	"github.com/ilkoid/poncho-travel/pkg/llm/openai"
)

// NewLLMProvider создает провайдера на основе конфигурации модели.
//
// Пустой provider трактуется как "openai". Все поддерживаемые провайдеры
// OpenAI-совместимы и отличаются только base_url.
func NewLLMProvider(modelDef config.ModelDef) (llm.Provider, error) {
	if modelDef.ModelName == "" {
		return nil, fmt.Errorf("model_name is required")
	}

	switch modelDef.Provider {
	case "", "openai", "openrouter", "deepseek", "zai":
		return openai.NewClient(modelDef), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s", modelDef.Provider)
	}
}
