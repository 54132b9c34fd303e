package gmaps

import "context"

// placesFieldMask ограничивает поля ответа Places API.
const placesFieldMask = "places.displayName,places.formattedAddress,places.types"

// Place - элемент places ответа Text Search.
type Place struct {
	DisplayName *struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress any      `json:"formattedAddress"`
	Types            []string `json:"types"`
}

// Name возвращает отображаемое имя места или nil, если провайдер его не прислал.
func (p Place) Name() any {
	if p.DisplayName == nil {
		return nil
	}
	return p.DisplayName.Text
}

type placesRequest struct {
	TextQuery string `json:"textQuery"`
}

type placesResponse struct {
	Places []Place `json:"places"`
}

// SearchText выполняет текстовый поиск мест и возвращает их в порядке провайдера.
func (c *Client) SearchText(ctx context.Context, query string) ([]Place, error) {
	headers := map[string]string{
		"X-Goog-FieldMask": placesFieldMask,
	}

	var resp placesResponse
	err := c.postJSON(ctx, ServicePlaces, c.endpoints.Places, headers, placesRequest{TextQuery: query}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Places, nil
}
