package gmaps

import (
	"context"
	"net/url"
)

// Coordinates - точка на карте, только что полученная от геокодера.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve геокодирует произвольное название места в координаты.
//
// Берётся первый результат геокодера. Любой сбой (статус не OK, пустой
// список, сеть, битый ответ) возвращается как *ResolutionError, который
// удовлетворяет errors.Is(err, ErrLocationNotFound).
func (c *Client) Resolve(ctx context.Context, place string) (Coordinates, error) {
	params := url.Values{}
	params.Set("address", place)
	params.Set("key", c.apiKey)

	var resp geocodeResponse
	if err := c.getJSON(ctx, ServiceGeocoding, c.endpoints.Geocode, params, &resp); err != nil {
		return Coordinates{}, &ResolutionError{Place: place, Err: err}
	}

	if resp.Status != "OK" || len(resp.Results) == 0 {
		return Coordinates{}, &ResolutionError{Place: place, Status: resp.Status}
	}

	loc := resp.Results[0].Geometry.Location
	return Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}
