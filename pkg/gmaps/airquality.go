package gmaps

import "context"

// UniversalAQICode - код универсального индекса качества воздуха (UAQI).
//
// Локальные индексы (например, usa_epa) в ответе тоже бывают, но
// учитывается только этот.
const UniversalAQICode = "uaqi"

// AirQualityIndex - один элемент indexes ответа Air Quality API.
type AirQualityIndex struct {
	Code              string `json:"code"`
	DisplayName       string `json:"displayName,omitempty"`
	AQI               any    `json:"aqi"`
	Category          any    `json:"category"`
	DominantPollutant any    `json:"dominantPollutant"`
}

type airQualityResponse struct {
	Indexes []AirQualityIndex `json:"indexes"`
}

// CurrentAirQuality запрашивает все индексы качества воздуха в точке.
//
// Пустой список - не ошибка.
func (c *Client) CurrentAirQuality(ctx context.Context, at Coordinates) ([]AirQualityIndex, error) {
	var resp airQualityResponse
	err := c.postJSON(ctx, ServiceAirQuality, c.endpoints.AirQuality, nil, conditionsRequest{Location: at}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Indexes, nil
}

// FindIndex возвращает первый индекс с указанным кодом.
func FindIndex(indexes []AirQualityIndex, code string) (AirQualityIndex, bool) {
	for _, idx := range indexes {
		if idx.Code == code {
			return idx, true
		}
	}
	return AirQualityIndex{}, false
}
