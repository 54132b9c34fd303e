package app

import (
	"fmt"

	"github.com/ilkoid/poncho-travel/pkg/config"
	"github.com/ilkoid/poncho-travel/pkg/gmaps"
	"github.com/ilkoid/poncho-travel/pkg/tools"
	"github.com/ilkoid/poncho-travel/pkg/tools/std"
	"github.com/ilkoid/poncho-travel/pkg/utils"
)

// SetupTools регистрирует инструменты планировщика, включённые в config.yaml.
//
// Неизвестные имена в секции tools - ошибка конфигурации.
func SetupTools(registry *tools.Registry, client *gmaps.Client, toolsCfg map[string]config.ToolConfig) error {
	constructors := map[string]func(*gmaps.Client, config.ToolConfig) tools.Tool{
		std.ToolWeather: func(c *gmaps.Client, cfg config.ToolConfig) tools.Tool {
			return std.NewWeatherTool(c, cfg)
		},
		std.ToolAirQuality: func(c *gmaps.Client, cfg config.ToolConfig) tools.Tool {
			return std.NewAirQualityTool(c, cfg)
		},
		std.ToolAttractions: func(c *gmaps.Client, cfg config.ToolConfig) tools.Tool {
			return std.NewAttractionsTool(c, cfg)
		},
	}

	for name := range toolsCfg {
		if _, ok := constructors[name]; !ok {
			return fmt.Errorf("unknown tool in config: %s", name)
		}
	}

	for _, name := range []string{std.ToolWeather, std.ToolAirQuality, std.ToolAttractions} {
		cfg, ok := toolsCfg[name]
		if !ok {
			cfg = config.ToolConfig{Enabled: true}
		}
		if !cfg.Enabled {
			utils.Debug("tool disabled, skipping", "tool", name)
			continue
		}

		if err := registry.Register(constructors[name](client, cfg)); err != nil {
			return fmt.Errorf("failed to register %s: %w", name, err)
		}
	}
	return nil
}
