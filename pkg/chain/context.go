package chain

import (
	"sync"

	"github.com/ilkoid/poncho-travel/pkg/llm"
)

// ChainContext - история сообщений одного выполнения.
//
// Thread-safe через sync.RWMutex. Все изменения проходят через методы.
type ChainContext struct {
	mu               sync.RWMutex
	runID            string
	currentIteration int
	messages         []llm.Message
}

// NewChainContext создаёт контекст с начальными сообщениями.
func NewChainContext(runID string, initial []llm.Message) *ChainContext {
	msgs := make([]llm.Message, len(initial), len(initial)+10)
	copy(msgs, initial)
	return &ChainContext{runID: runID, messages: msgs}
}

// RunID возвращает идентификатор выполнения.
func (c *ChainContext) RunID() string {
	return c.runID
}

// IncrementIteration увеличивает счётчик итераций.
func (c *ChainContext) IncrementIteration() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentIteration++
	return c.currentIteration
}

// GetCurrentIteration возвращает номер текущей итерации.
func (c *ChainContext) GetCurrentIteration() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentIteration
}

// GetMessages возвращает копию сообщений.
func (c *ChainContext) GetMessages() []llm.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]llm.Message, len(c.messages))
	copy(result, c.messages)
	return result
}

// AppendMessage добавляет сообщение и возвращает снимок истории после добавления.
func (c *ChainContext) AppendMessage(msg llm.Message) []llm.Message {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	return c.GetMessages()
}
