// Загрузка и Рендер - чтение файла и text/template.

package prompt

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/ilkoid/poncho-travel/pkg/llm"
	"gopkg.in/yaml.v3"
)

// Load загружает и парсит YAML файл промптов.
func Load(path string) (*PromptFile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("prompt file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var pf PromptFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}

	return &pf, nil
}

// Get возвращает сообщение-шаблон по имени.
func (pf *PromptFile) Get(name string) (Message, bool) {
	for _, m := range pf.Messages {
		if m.Name == name {
			return m, true
		}
	}
	return Message{}, false
}

// Render подставляет data в шаблон сообщения name.
func (pf *PromptFile) Render(name string, data interface{}) (string, error) {
	msg, ok := pf.Get(name)
	if !ok {
		return "", fmt.Errorf("prompt message %q not found", name)
	}

	tmpl, err := template.New(name).Parse(msg.Content)
	if err != nil {
		return "", fmt.Errorf("template parse error in message %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execute error in message %q: %w", name, err)
	}
	return buf.String(), nil
}

// GenerateOptions конвертирует config секцию в опции LLM.
func (pf *PromptFile) GenerateOptions() []llm.GenerateOption {
	var opts []llm.GenerateOption
	if pf.Config.Model != "" {
		opts = append(opts, llm.WithModel(pf.Config.Model))
	}
	if pf.Config.Temperature != nil {
		opts = append(opts, llm.WithTemperature(*pf.Config.Temperature))
	}
	if pf.Config.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(pf.Config.MaxTokens))
	}
	return opts
}
