// Структуры данных - описывает формат YAML файла промптов планировщика.
package prompt

// PromptFile описывает структуру YAML-файла с промптами.
//
// Сообщения адресуются по Name: "system", "example", "turn".
type PromptFile struct {
	Config   PromptConfig `yaml:"config"`
	Messages []Message    `yaml:"messages"`
}

// PromptConfig - переопределение параметров модели для планировщика.
type PromptConfig struct {
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature"` // nil - берётся из models.definitions
	MaxTokens   int      `yaml:"max_tokens"`
}

// Message - одно сообщение-шаблон.
type Message struct {
	Name    string `yaml:"name"`
	Role    string `yaml:"role"`    // system, user
	Content string `yaml:"content"` // Шаблон с {{.Input}}
}
