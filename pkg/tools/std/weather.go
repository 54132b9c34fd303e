package std

import (
	"context"
	"fmt"

	"github.com/ilkoid/poncho-travel/pkg/config"
	"github.com/ilkoid/poncho-travel/pkg/gmaps"
	"github.com/ilkoid/poncho-travel/pkg/tools"
)

// WeatherTool - текущая погода в произвольном месте.
type WeatherTool struct {
	client      *gmaps.Client
	description string
}

// NewWeatherTool создает инструмент get_weather_forecast.
func NewWeatherTool(c *gmaps.Client, cfg config.ToolConfig) *WeatherTool {
	desc := cfg.Description
	if desc == "" {
		desc = "Get current weather conditions for a location. Returns temperature in Celsius and Fahrenheit, condition and humidity."
	}
	return &WeatherTool{client: c, description: desc}
}

func (t *WeatherTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        ToolWeather,
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]interface{}{
				"location": map[string]interface{}{
					"type":        "string",
					"description": "City name or address, e.g. 'Toronto' or 'Chicago, IL'",
				},
			},
			"required": []string{"location"},
		},
	}
}

func (t *WeatherTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Location string `json:"location"`
	}
	if err := parseArgs(argsJSON, &args); err != nil {
		return "", err
	}
	if args.Location == "" {
		return "", fmt.Errorf("location is required")
	}

	report, err := t.client.WeatherFor(ctx, args.Location)
	logLookup(ToolWeather, args.Location, err)
	if err != nil {
		return "", err
	}
	return marshalResult(report)
}
