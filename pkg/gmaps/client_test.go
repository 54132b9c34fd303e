package gmaps

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ilkoid/poncho-travel/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient поднимает httptest сервер с заданными обработчиками
// и направляет на него все endpoints клиента.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewFromConfig(config.MapsConfig{
		APIKey:        "test-key",
		GeocodeURL:    srv.URL + "/geocode",
		WeatherURL:    srv.URL + "/weather",
		AirQualityURL: srv.URL + "/air",
		PlacesURL:     srv.URL + "/places",
	})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewFromConfig_RequiresKey(t *testing.T) {
	_, err := NewFromConfig(config.MapsConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestResolve(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geocode", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		switch r.URL.Query().Get("address") {
		case "Toronto":
			writeJSON(w, http.StatusOK, `{"status":"OK","results":[
				{"geometry":{"location":{"lat":43.65,"lng":-79.38}}},
				{"geometry":{"location":{"lat":1,"lng":1}}}]}`)
		case "Empty":
			writeJSON(w, http.StatusOK, `{"status":"OK","results":[]}`)
		case "Broken":
			writeJSON(w, http.StatusOK, `not json`)
		default:
			writeJSON(w, http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`)
		}
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	coords, err := c.Resolve(ctx, "Toronto")
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Latitude: 43.65, Longitude: -79.38}, coords)

	for _, place := range []string{"Unknownville", "Empty", "Broken"} {
		t.Run(place, func(t *testing.T) {
			_, err := c.Resolve(ctx, place)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrLocationNotFound))

			var resErr *ResolutionError
			require.True(t, errors.As(err, &resErr))
			assert.Equal(t, "Error: Could not find location '"+place+"'", resErr.ToolMessage())
			assert.Equal(t, ErrNotFound, ClassifyError(err))
		})
	}
}

func TestResolve_TransportFailure(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())
	c.endpoints.Geocode = "http://127.0.0.1:1/geocode"

	_, err := c.Resolve(context.Background(), "Toronto")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocationNotFound))
}

func TestCurrentWeather(t *testing.T) {
	var body []byte
	mux := http.NewServeMux()
	mux.HandleFunc("/weather", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		body, _ = io.ReadAll(r.Body)
		writeJSON(w, http.StatusOK, `{"currentWeather":{
			"temperature":{"celsius":5,"fahrenheit":41},
			"weatherCondition":"CLOUDY",
			"humidity":60}}`)
	})
	c := newTestClient(t, mux)

	cw, err := c.CurrentWeather(context.Background(), Coordinates{Latitude: 43.65, Longitude: -79.38})
	require.NoError(t, err)

	require.NotNil(t, cw.Temperature.Celsius)
	assert.Equal(t, 5.0, *cw.Temperature.Celsius)
	assert.Equal(t, 41.0, *cw.Temperature.Fahrenheit)
	assert.Equal(t, "CLOUDY", cw.WeatherCondition)
	assert.Equal(t, 60.0, cw.Humidity)

	var sent map[string]map[string]float64
	require.NoError(t, json.Unmarshal(body, &sent))
	assert.Equal(t, 43.65, sent["location"]["latitude"])
	assert.Equal(t, -79.38, sent["location"]["longitude"])
}

func TestCurrentWeather_Missing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/weather", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})
	c := newTestClient(t, mux)

	_, err := c.CurrentWeather(context.Background(), Coordinates{})
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestCurrentWeather_StatusError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/weather", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"error":{"message":"API not enabled"}}`)
	})
	c := newTestClient(t, mux)

	_, err := c.CurrentWeather(context.Background(), Coordinates{})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 403, statusErr.Code)
	assert.Equal(t, "Weather API error: HTTP 403", statusErr.ToolMessage())
	assert.Equal(t, ErrAuthFailed, ClassifyError(err))
}

func TestCurrentAirQuality(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/air", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"indexes":[
			{"code":"usa_epa","aqi":80,"category":"Moderate","dominantPollutant":"o3"},
			{"code":"uaqi","aqi":62,"category":"Good air quality","dominantPollutant":"pm25"}]}`)
	})
	c := newTestClient(t, mux)

	indexes, err := c.CurrentAirQuality(context.Background(), Coordinates{})
	require.NoError(t, err)
	require.Len(t, indexes, 2)

	idx, ok := FindIndex(indexes, UniversalAQICode)
	require.True(t, ok)
	assert.Equal(t, 62.0, idx.AQI)
	assert.Equal(t, "Good air quality", idx.Category)
	assert.Equal(t, "pm25", idx.DominantPollutant)

	_, ok = FindIndex(indexes, "gbr_defra")
	assert.False(t, ok)
}

func TestSearchText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/places", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, placesFieldMask, r.Header.Get("X-Goog-FieldMask"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req placesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tourist attractions in Chicago", req.TextQuery)

		writeJSON(w, http.StatusOK, `{"places":[
			{"displayName":{"text":"Art Institute"},"formattedAddress":"111 S Michigan Ave","types":["museum"]},
			{"formattedAddress":"somewhere","types":[]}]}`)
	})
	c := newTestClient(t, mux)

	places, err := c.SearchText(context.Background(), "tourist attractions in Chicago")
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "Art Institute", places[0].Name())
	assert.Equal(t, []string{"museum"}, places[0].Types)
	assert.Nil(t, places[1].Name())
}

func TestBreakerOpensAfterServerErrors(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/places", func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusInternalServerError, `{}`)
	})
	c := newTestClient(t, mux)
	c.breakerFailures = 2

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := c.SearchText(ctx, "q")
		assert.Equal(t, ErrServer, ClassifyError(err))
	}

	_, err := c.SearchText(ctx, "q")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, calls, "open breaker must not reach the server")
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/places", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{}`)
	})
	c := newTestClient(t, mux)
	c.breakerFailures = 1

	for i := 0; i < 3; i++ {
		_, err := c.SearchText(context.Background(), "q")
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, "Places API error: HTTP 400", statusErr.Error())
	}
}

func TestErrorTypeMessages(t *testing.T) {
	for _, et := range []ErrorType{ErrUnknown, ErrNotFound, ErrNoData, ErrAuthFailed, ErrRateLimit, ErrTimeout, ErrNetwork, ErrServer, ErrBreakerOpen} {
		assert.NotEmpty(t, et.String())
		assert.NotEmpty(t, et.HumanMessage())
	}
	assert.Equal(t, ErrTimeout, ClassifyError(context.DeadlineExceeded))
	assert.Equal(t, ErrRateLimit, ClassifyError(&StatusError{Service: ServicePlaces, Code: 429}))
}

func TestStatusErrorToolMessage(t *testing.T) {
	assert.Equal(t, "Weather API error: HTTP 500", (&StatusError{Service: ServiceWeather, Code: 500}).ToolMessage())
	assert.Equal(t, "Air Quality API error: HTTP 404", (&StatusError{Service: ServiceAirQuality, Code: 404}).ToolMessage())
	assert.Equal(t, "Error: Places API error: HTTP 400", (&StatusError{Service: ServicePlaces, Code: 400}).ToolMessage())
}
