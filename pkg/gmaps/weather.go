package gmaps

import "context"

// CurrentWeather - блок currentWeather ответа Weather API.
//
// Condition и Humidity передаются дальше в той форме, в какой их вернул
// провайдер.
type CurrentWeather struct {
	Temperature struct {
		Celsius    *float64 `json:"celsius"`
		Fahrenheit *float64 `json:"fahrenheit"`
	} `json:"temperature"`
	WeatherCondition any `json:"weatherCondition"`
	Humidity         any `json:"humidity"`
}

type conditionsRequest struct {
	Location Coordinates `json:"location"`
}

type weatherResponse struct {
	CurrentWeather *CurrentWeather `json:"currentWeather"`
}

// CurrentWeather запрашивает текущие погодные условия в точке.
//
// Если в ответе нет блока currentWeather, возвращает ErrDataUnavailable.
// Не-200 ответ → *StatusError.
func (c *Client) CurrentWeather(ctx context.Context, at Coordinates) (*CurrentWeather, error) {
	var resp weatherResponse
	err := c.postJSON(ctx, ServiceWeather, c.endpoints.Weather, nil, conditionsRequest{Location: at}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.CurrentWeather == nil {
		return nil, ErrDataUnavailable
	}
	return resp.CurrentWeather, nil
}
