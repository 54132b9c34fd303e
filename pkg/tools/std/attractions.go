package std

import (
	"context"
	"fmt"

	"github.com/ilkoid/poncho-travel/pkg/config"
	"github.com/ilkoid/poncho-travel/pkg/gmaps"
	"github.com/ilkoid/poncho-travel/pkg/tools"
)

// AttractionsTool - поиск достопримечательностей города через Places Text Search.
type AttractionsTool struct {
	client       *gmaps.Client
	description  string
	defaultLimit int
}

// NewAttractionsTool создает инструмент find_tourist_attractions.
//
// cfg.Limit задает размер выдачи, когда LLM не передала num_results.
func NewAttractionsTool(c *gmaps.Client, cfg config.ToolConfig) *AttractionsTool {
	desc := cfg.Description
	if desc == "" {
		desc = "Find popular tourist attractions in a city. Returns name, address and place types."
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultAttractionsLimit
	}
	return &AttractionsTool{client: c, description: desc, defaultLimit: limit}
}

func (t *AttractionsTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        ToolAttractions,
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]interface{}{
				"city": map[string]interface{}{
					"type":        "string",
					"description": "City to search in",
				},
				"num_results": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("How many attractions to return (default %d)", t.defaultLimit),
				},
			},
			"required": []string{"city"},
		},
	}
}

func (t *AttractionsTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		City       string `json:"city"`
		NumResults int    `json:"num_results"`
	}
	if err := parseArgs(argsJSON, &args); err != nil {
		return "", err
	}
	if args.City == "" {
		return "", fmt.Errorf("city is required")
	}
	if args.NumResults <= 0 {
		args.NumResults = t.defaultLimit
	}

	list, err := t.client.AttractionsIn(ctx, args.City, args.NumResults)
	logLookup(ToolAttractions, args.City, err)
	if err != nil {
		return "", err
	}
	return marshalResult(list)
}
