package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig - корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Models ModelsConfig          `yaml:"models"`
	Tools  map[string]ToolConfig `yaml:"tools"`
	Maps   MapsConfig            `yaml:"maps"`
	Probe  ProbeConfig           `yaml:"probe"`
	Server ServerConfig          `yaml:"server"`
	App    AppSpecific           `yaml:"app"`
}

// MapsConfig - настройки Google Maps Platform (геокодинг, погода, воздух, места).
type MapsConfig struct {
	APIKey        string `yaml:"api_key"` // Поддерживает ${VAR}
	GeocodeURL    string `yaml:"geocode_url"`
	WeatherURL    string `yaml:"weather_url"`
	AirQualityURL string `yaml:"air_quality_url"`
	PlacesURL     string `yaml:"places_url"`
	RateLimit     int    `yaml:"rate_limit"` // Запросов в минуту на endpoint
	BurstLimit    int    `yaml:"burst_limit"`
	Timeout       string `yaml:"timeout"` // Timeout для HTTP запросов (например, "15s")

	// Circuit breaker: открывается после BreakerFailures подряд 5xx/сетевых ошибок.
	BreakerFailures int    `yaml:"breaker_failures"`
	BreakerTimeout  string `yaml:"breaker_timeout"`
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *MapsConfig) GetDefaults() MapsConfig {
	result := *c

	if result.GeocodeURL == "" {
		result.GeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	}
	if result.WeatherURL == "" {
		result.WeatherURL = "https://weather.googleapis.com/v1/currentConditions:lookup"
	}
	if result.AirQualityURL == "" {
		result.AirQualityURL = "https://airquality.googleapis.com/v1/currentConditions:lookup"
	}
	if result.PlacesURL == "" {
		result.PlacesURL = "https://places.googleapis.com/v1/places:searchText"
	}
	if result.RateLimit == 0 {
		result.RateLimit = 600
	}
	if result.BurstLimit == 0 {
		result.BurstLimit = 10
	}
	if result.Timeout == "" {
		result.Timeout = "15s"
	}
	if result.BreakerFailures == 0 {
		result.BreakerFailures = 5
	}
	if result.BreakerTimeout == "" {
		result.BreakerTimeout = "30s"
	}

	return result
}

// ModelsConfig - настройки AI моделей.
type ModelsConfig struct {
	DefaultChat string              `yaml:"default_chat"` // Алиас для чата по умолчанию (например, "gpt-4o-mini")
	Definitions map[string]ModelDef `yaml:"definitions"`  // Словарь определений моделей
}

// ModelDef - параметры конкретной модели.
type ModelDef struct {
	Provider    string        `yaml:"provider"`   // "openai", "openrouter" и т.д.
	ModelName   string        `yaml:"model_name"` // Реальное имя в API
	APIKey      string        `yaml:"api_key"`    // Поддерживает ${VAR}
	BaseURL     string        `yaml:"base_url"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"` // Go умеет парсить строки вида "60s", "1m"
}

// ToolConfig - настройки инструментов.
type ToolConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Description string        `yaml:"description"`
	Timeout     time.Duration `yaml:"timeout"`
	Limit       int           `yaml:"limit"` // Дефолтный размер выдачи (find_tourist_attractions)
}

// ProbeConfig - настройки утилиты model-probe.
type ProbeConfig struct {
	Models    []string `yaml:"models"`
	Prompt    string   `yaml:"prompt"`
	MaxTokens int      `yaml:"max_tokens"`
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *ProbeConfig) GetDefaults() ProbeConfig {
	result := *c

	if len(result.Models) == 0 {
		result.Models = []string{"gpt-3.5-turbo", "gpt-4o-mini", "gpt-4o", "gpt-4-turbo", "gpt-4"}
	}
	if result.Prompt == "" {
		result.Prompt = "Say 'hello'"
	}
	if result.MaxTokens == 0 {
		result.MaxTokens = 5
	}

	return result
}

// ServerConfig - настройки HTTP сервера инструментов.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppSpecific - общие настройки приложения.
type AppSpecific struct {
	Debug         bool   `yaml:"debug"`     // Сохранять JSON трейсы запросов в DebugDir
	DebugDir      string `yaml:"debug_dir"`
	MaxIterations int    `yaml:"max_iterations"`
	SystemPrompt  string `yaml:"system_prompt"` // Перекрывает system из prompt_file
	PromptFile    string `yaml:"prompt_file"`   // YAML с шаблонами планировщика, пустой - встроенные
	ToolTimeout   string `yaml:"tool_timeout"`  // Timeout одного вызова инструмента (например, "30s")
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
//
// Перед разбором подгружается .env из текущей директории (если есть),
// так что ${OPENAI_API_KEY} и ${GOOGLE_MAPS_API_KEY} можно держать там.
func Load(path string) (*AppConfig, error) {
	loadDotEnv()

	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	cfg.applyDefaults()

	// 5. Валидируем критические настройки
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default собирает конфигурацию только из окружения (и .env).
//
// Используется когда config.yaml отсутствует: gpt-4o-mini с temperature 0
// и все три инструмента включены.
func Default() (*AppConfig, error) {
	loadDotEnv()

	cfg := AppConfig{
		Models: ModelsConfig{
			DefaultChat: "gpt-4o-mini",
			Definitions: map[string]ModelDef{
				"gpt-4o-mini": {
					Provider:  "openai",
					ModelName: "gpt-4o-mini",
					APIKey:    os.Getenv("OPENAI_API_KEY"),
					Timeout:   120 * time.Second,
				},
			},
		},
		Maps: MapsConfig{
			APIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		},
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault загружает config.yaml если он есть, иначе строит конфиг из окружения.
func LoadOrDefault(path string) (*AppConfig, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default()
}

// loadDotEnv подгружает .env; отсутствие файла - не ошибка.
func loadDotEnv() {
	_ = godotenv.Load()
}

// applyDefaults заполняет незаданные секции.
func (c *AppConfig) applyDefaults() {
	c.Maps = c.Maps.GetDefaults()
	c.Probe = c.Probe.GetDefaults()

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.App.MaxIterations == 0 {
		c.App.MaxIterations = 10
	}
	if c.App.ToolTimeout == "" {
		c.App.ToolTimeout = "30s"
	}
	if c.App.DebugDir == "" {
		c.App.DebugDir = "debug_logs"
	}
	if c.Tools == nil {
		c.Tools = make(map[string]ToolConfig)
	}
	// Инструменты, не упомянутые в YAML, включены по умолчанию
	for _, name := range []string{"get_weather_forecast", "get_air_quality", "find_tourist_attractions"} {
		if _, ok := c.Tools[name]; !ok {
			c.Tools[name] = ToolConfig{Enabled: true}
		}
	}
}

// validate проверяет структуру конфигурации.
//
// Наличие ключей проверяется отдельно (RequireMapsKey, RequireChatKey):
// model-probe не нужен ключ Maps, а tools-server не нужен ключ LLM.
func (c *AppConfig) validate() error {
	if c.Models.DefaultChat == "" {
		return fmt.Errorf("models.default_chat is required")
	}
	if _, ok := c.Models.Definitions[c.Models.DefaultChat]; !ok {
		return fmt.Errorf("default_chat model '%s' is not defined in definitions", c.Models.DefaultChat)
	}
	if _, err := time.ParseDuration(c.Maps.Timeout); err != nil {
		return fmt.Errorf("invalid maps.timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Maps.BreakerTimeout); err != nil {
		return fmt.Errorf("invalid maps.breaker_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.App.ToolTimeout); err != nil {
		return fmt.Errorf("invalid app.tool_timeout: %w", err)
	}
	return nil
}

// RequireMapsKey проверяет что ключ Google Maps задан.
func (c *AppConfig) RequireMapsKey() error {
	if c.Maps.APIKey == "" {
		return fmt.Errorf("maps.api_key is required (set GOOGLE_MAPS_API_KEY in your .env file)")
	}
	return nil
}

// RequireChatKey проверяет что у модели по умолчанию есть API ключ.
func (c *AppConfig) RequireChatKey() error {
	def, _ := c.GetChatModel("")
	if def.APIKey == "" {
		return fmt.Errorf("api_key for model '%s' is empty (set OPENAI_API_KEY in your .env file)", c.Models.DefaultChat)
	}
	return nil
}

// GetChatModel возвращает конфигурацию модели по умолчанию или по имени.
func (c *AppConfig) GetChatModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultChat
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}
