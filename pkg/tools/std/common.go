// Package std содержит инструменты планировщика поездок поверх pkg/gmaps.
//
// Инструменты тонкие: разбор аргументов, вызов SDK, сериализация в JSON.
// Ошибки возвращаются типизированными, текст для агента формирует
// tools.Registry.Invoke.
package std

import (
	"encoding/json"
	"fmt"

	"github.com/ilkoid/poncho-travel/pkg/gmaps"
	"github.com/ilkoid/poncho-travel/pkg/utils"
)

// Имена инструментов, видимые агенту.
const (
	ToolWeather     = "get_weather_forecast"
	ToolAirQuality  = "get_air_quality"
	ToolAttractions = "find_tourist_attractions"
)

// DefaultAttractionsLimit - размер выдачи find_tourist_attractions по умолчанию.
const DefaultAttractionsLimit = 5

// parseArgs разбирает JSON аргументов от LLM.
func parseArgs(argsJSON string, dest any) error {
	cleaned := utils.CleanJsonBlock(argsJSON)
	if cleaned == "" {
		cleaned = "{}"
	}
	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// marshalResult сериализует результат инструмента.
func marshalResult(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data), nil
}

// logLookup пишет в лог исход обращения к Google API.
func logLookup(tool, subject string, err error) {
	if err == nil {
		utils.Debug("lookup ok", "tool", tool, "subject", subject)
		return
	}
	kind := gmaps.ClassifyError(err)
	utils.Warn("lookup failed",
		"tool", tool,
		"subject", subject,
		"error_type", kind.String(),
		"hint", kind.HumanMessage(),
		"error", err,
	)
}
