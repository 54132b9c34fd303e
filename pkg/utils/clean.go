// Package utils предоставляет вспомогательные функции для обработки данных.
//
// Включает утилиты для очистки ответов LLM от markdown-обёртки
// и укорачивания текста для вывода в консоль.
package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanJsonBlock удаляет markdown-обёртку вокруг JSON.
//
// LLM иногда присылает аргументы tool call обёрнутыми в markdown:
//
//	```json
//	{"location": "Toronto"}
//	```
//
// Примеры:
//
//	```json {"a": 1} ``` → {"a": 1}
//	``` {"a": 1} ``` → {"a": 1}
func CleanJsonBlock(s string) string {
	s = strings.TrimSpace(s)

	// Удаляем ```json в начале
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```Json")

	// Удаляем ``` в начале и в конце
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// Truncate обрезает строку до max рун, не разрезая UTF-8 символы.
//
// Если max <= 0, возвращает исходную строку.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// OneLine схлопывает переносы строк и повторяющиеся пробелы.
//
// Используется для однострочного вывода ошибок провайдеров.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
