package prompt

import (
	"fmt"
	"strings"
)

// Имена сообщений в PromptFile.
const (
	MessageSystem  = "system"
	MessageExample = "example"
	MessageTurn    = "turn"
)

// Banner - заголовок интерактивного планировщика.
const Banner = "Michael's Retirement Travel Planner"

// Farewell печатается при выходе из интерактивного режима.
const Farewell = "Thank you for using Michael's Travel Planner!"

// exampleRequest - сценарий Toronto → Chicago, выполняемый при старте.
const exampleRequest = `You are a helpful travel planning assistant for Michael Zhang, a retiree who wants to travel around the world.

For each city, get weather forecast, air quality information, suggest tourist attractions, recommend clothing based on weather, and recommend masks if AQI > 100.

Please create a travel plan for the following cities:

City1: Toronto 2025-01-31
CN Tower; 290 Bremner Blvd, Toronto, ON M5V 3L9; 8am-9am
Royal Ontario Museum; 100 Queens Park, Toronto, ON M5S 2C6; 10am-11am

City2: Chicago 2025-02-01
The Art Institute of Chicago; 111 S Michigan Ave, Chicago, IL 60603, United States; 9am-11am
Griffin Museum of Science and Industry; 5700 S DuSable Lake Shore Dr, Chicago, IL 60637, United States; 12pm-1pm
`

// turnTemplate оборачивает каждый ввод интерактивного режима.
const turnTemplate = `You are a travel planning assistant. For each location, get weather, air quality, and attractions. Recommend clothing and masks (if AQI > 100).

User request: {{.Input}}`

// Default возвращает встроенный набор промптов планировщика.
//
// Системный промпт пустой: инструкции приходят в пользовательском сообщении.
func Default() *PromptFile {
	return &PromptFile{
		Messages: []Message{
			{Name: MessageExample, Role: "user", Content: exampleRequest},
			{Name: MessageTurn, Role: "user", Content: turnTemplate},
		},
	}
}

// LoadOrDefault загружает файл промптов, а недостающие сообщения берёт из Default.
//
// Пустой path - только встроенные промпты.
func LoadOrDefault(path string) (*PromptFile, error) {
	def := Default()
	if path == "" {
		return def, nil
	}

	pf, err := Load(path)
	if err != nil {
		return nil, err
	}
	for _, m := range def.Messages {
		if _, ok := pf.Get(m.Name); !ok {
			pf.Messages = append(pf.Messages, m)
		}
	}
	return pf, nil
}

// SystemPrompt возвращает системный промпт или пустую строку.
func (pf *PromptFile) SystemPrompt() string {
	m, ok := pf.Get(MessageSystem)
	if !ok {
		return ""
	}
	return strings.TrimSpace(m.Content)
}

// ExampleRequest возвращает текст стартового сценария.
func (pf *PromptFile) ExampleRequest() (string, error) {
	return pf.Render(MessageExample, nil)
}

// WrapTurn оборачивает пользовательский ввод в инструкцию планировщика.
func (pf *PromptFile) WrapTurn(input string) (string, error) {
	out, err := pf.Render(MessageTurn, struct{ Input string }{Input: input})
	if err != nil {
		return "", fmt.Errorf("wrap turn: %w", err)
	}
	return out, nil
}
