package gmaps

import (
	"context"
	"errors"
	"fmt"
)

// WeatherReport - нормализованная сводка погоды для агента.
//
// Отсутствующие у провайдера поля остаются nil и сериализуются в null.
type WeatherReport struct {
	Location              string   `json:"location"`
	TemperatureCelsius    *float64 `json:"temperature_celsius"`
	TemperatureFahrenheit *float64 `json:"temperature_fahrenheit"`
	Condition             any      `json:"condition"`
	Humidity              any      `json:"humidity"`
}

// AirQualityReport - сводка качества воздуха.
//
// Conditions содержит aqi, category и dominant_pollutant индекса uaqi.
// Если индекс не найден, это пустой объект, а не null.
type AirQualityReport struct {
	Location   string         `json:"location"`
	Conditions map[string]any `json:"current_conditions"`
}

// Attraction - достопримечательность в проекции для агента.
type Attraction struct {
	Name    any      `json:"name"`
	Address any      `json:"address"`
	Types   []string `json:"types"`
}

// AttractionList - результат поиска достопримечательностей.
type AttractionList struct {
	City        string       `json:"city"`
	Attractions []Attraction `json:"attractions"`
}

// WeatherFor геокодирует location и возвращает текущую погоду.
//
// Координаты запрашиваются заново при каждом вызове.
func (c *Client) WeatherFor(ctx context.Context, location string) (*WeatherReport, error) {
	coords, err := c.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	cw, err := c.CurrentWeather(ctx, coords)
	if errors.Is(err, ErrDataUnavailable) {
		return nil, &DataUnavailableError{Subject: "Weather", Location: location}
	}
	if err != nil {
		return nil, err
	}

	return &WeatherReport{
		Location:              location,
		TemperatureCelsius:    cw.Temperature.Celsius,
		TemperatureFahrenheit: cw.Temperature.Fahrenheit,
		Condition:             cw.WeatherCondition,
		Humidity:              cw.Humidity,
	}, nil
}

// AirQualityFor геокодирует location и возвращает показатели UAQI.
func (c *Client) AirQualityFor(ctx context.Context, location string) (*AirQualityReport, error) {
	coords, err := c.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	indexes, err := c.CurrentAirQuality(ctx, coords)
	if err != nil {
		return nil, err
	}

	report := &AirQualityReport{
		Location:   location,
		Conditions: map[string]any{},
	}
	if idx, ok := FindIndex(indexes, UniversalAQICode); ok {
		report.Conditions = map[string]any{
			"aqi":                idx.AQI,
			"category":           idx.Category,
			"dominant_pollutant": idx.DominantPollutant,
		}
	}
	return report, nil
}

// AttractionsIn ищет достопримечательности города и возвращает первые limit.
//
// Геокодинг не выполняется: город уходит в текстовый запрос как есть.
func (c *Client) AttractionsIn(ctx context.Context, city string, limit int) (*AttractionList, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	places, err := c.SearchText(ctx, fmt.Sprintf("tourist attractions in %s", city))
	if err != nil {
		return nil, err
	}

	if len(places) > limit {
		places = places[:limit]
	}

	list := &AttractionList{
		City:        city,
		Attractions: make([]Attraction, 0, len(places)),
	}
	for _, p := range places {
		types := p.Types
		if types == nil {
			types = []string{}
		}
		list.Attractions = append(list.Attractions, Attraction{
			Name:    p.Name(),
			Address: p.FormattedAddress,
			Types:   types,
		})
	}
	return list, nil
}
