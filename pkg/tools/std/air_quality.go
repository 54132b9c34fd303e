package std

import (
	"context"
	"fmt"

	"github.com/ilkoid/poncho-travel/pkg/config"
	"github.com/ilkoid/poncho-travel/pkg/gmaps"
	"github.com/ilkoid/poncho-travel/pkg/tools"
)

// AirQualityTool - текущий индекс качества воздуха (UAQI).
type AirQualityTool struct {
	client      *gmaps.Client
	description string
}

// NewAirQualityTool создает инструмент get_air_quality.
func NewAirQualityTool(c *gmaps.Client, cfg config.ToolConfig) *AirQualityTool {
	desc := cfg.Description
	if desc == "" {
		desc = "Get current air quality for a location: universal AQI, category and dominant pollutant."
	}
	return &AirQualityTool{client: c, description: desc}
}

func (t *AirQualityTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        ToolAirQuality,
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]interface{}{
				"location": map[string]interface{}{
					"type":        "string",
					"description": "City name or address",
				},
			},
			"required": []string{"location"},
		},
	}
}

func (t *AirQualityTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Location string `json:"location"`
	}
	if err := parseArgs(argsJSON, &args); err != nil {
		return "", err
	}
	if args.Location == "" {
		return "", fmt.Errorf("location is required")
	}

	report, err := t.client.AirQualityFor(ctx, args.Location)
	logLookup(ToolAirQuality, args.Location, err)
	if err != nil {
		return "", err
	}
	return marshalResult(report)
}
