package ui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ilkoid/poncho-travel/pkg/llm"
	"github.com/ilkoid/poncho-travel/pkg/utils"
	"github.com/muesli/reflow/wordwrap"
)

// TitleWidth - ширина заголовка сообщения вместе с разделителями.
const TitleWidth = 80

// Title центрирует " title " между знаками '='.
//
// Нечётный остаток уходит в правый разделитель.
func Title(title string) string {
	padded := " " + title + " "
	sepLen := (TitleWidth - len(padded)) / 2
	if sepLen < 0 {
		sepLen = 0
	}
	sep := strings.Repeat("=", sepLen)
	second := sep
	if len(padded)%2 == 1 {
		second += "="
	}
	return sep + padded + second
}

// roleTitle возвращает заголовок для роли сообщения.
func roleTitle(role llm.Role) string {
	switch role {
	case llm.RoleUser:
		return "Human Message"
	case llm.RoleAssistant:
		return "Ai Message"
	case llm.RoleTool:
		return "Tool Message"
	case llm.RoleSystem:
		return "System Message"
	default:
		return "Message"
	}
}

// FormatMessage форматирует сообщение диалога для консоли.
//
// width > 0 включает перенос строк по словам.
func FormatMessage(m llm.Message, width int) string {
	var b strings.Builder
	b.WriteString(Title(roleTitle(m.Role)))
	b.WriteString("\n")

	if m.Role == llm.RoleTool && m.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", m.Name)
	}

	b.WriteString("\n")
	content := m.Content
	if width > 0 {
		content = wordwrap.String(content, width)
	}
	b.WriteString(content)

	if len(m.ToolCalls) > 0 {
		if content != "" {
			b.WriteString("\n")
		}
		b.WriteString("Tool Calls:")
		for _, tc := range m.ToolCalls {
			fmt.Fprintf(&b, "\n  %s (%s)\n Call ID: %s\n  Args:", tc.Name, tc.ID, tc.ID)
			for _, line := range formatArgs(tc.Args) {
				fmt.Fprintf(&b, "\n    %s", line)
			}
		}
	}
	return b.String()
}

// formatArgs раскладывает JSON аргументы в строки "key: value" по ключам.
//
// Невалидный JSON печатается как есть.
func formatArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(utils.CleanJsonBlock(args)), &parsed); err != nil {
		return []string{args}
	}

	keys := make([]string, 0, len(parsed))
	for k := range parsed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, parsed[k]))
	}
	return lines
}
