package chain

import (
	"fmt"
	"time"
)

// DefaultMaxIterations - стандартный лимит итераций ReAct цикла.
const DefaultMaxIterations = 10

// DefaultChainTimeout - стандартный таймаут для выполнения chain.
const DefaultChainTimeout = 5 * time.Minute

// DefaultToolTimeout - защитный timeout одного вызова инструмента.
const DefaultToolTimeout = 30 * time.Second

// ReActCycleConfig - конфигурация ReAct цикла.
type ReActCycleConfig struct {
	// SystemPrompt - системный промпт. Пустой - системное сообщение не добавляется.
	SystemPrompt string

	// MaxIterations - максимальное количество обращений к LLM.
	MaxIterations int

	// Timeout - таймаут выполнения всей цепочки.
	Timeout time.Duration

	// ToolTimeout - timeout одного вызова инструмента.
	ToolTimeout time.Duration

	// ToolTimeouts - переопределение timeout для конкретных инструментов.
	ToolTimeouts map[string]time.Duration
}

// NewReActCycleConfig создаёт конфигурацию с дефолтными значениями.
func NewReActCycleConfig() ReActCycleConfig {
	return ReActCycleConfig{
		MaxIterations: DefaultMaxIterations,
		Timeout:       DefaultChainTimeout,
		ToolTimeout:   DefaultToolTimeout,
	}
}

// Validate проверяет конфигурацию на валидность.
func (c *ReActCycleConfig) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.ToolTimeout <= 0 {
		return fmt.Errorf("tool timeout must be positive, got %v", c.ToolTimeout)
	}
	return nil
}

// toolTimeout возвращает timeout для инструмента.
func (c *ReActCycleConfig) toolTimeout(name string) time.Duration {
	if t, ok := c.ToolTimeouts[name]; ok && t > 0 {
		return t
	}
	return c.ToolTimeout
}
