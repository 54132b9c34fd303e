package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/poncho-travel/pkg/tools"
	"github.com/ilkoid/poncho-travel/pkg/tools/std"
)

// argsTool возвращает полученные аргументы; "fail" в аргументах - ошибка.
type argsTool struct {
	name string
}

func (a argsTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        a.name,
		Description: "test " + a.name,
		Parameters:  tools.JSONSchema{"type": "object", "properties": map[string]any{}},
	}
}

func (a argsTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	if strings.Contains(argsJSON, "fail") {
		return "", errors.New("city is required")
	}
	return argsJSON, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	reg := tools.NewRegistry()
	for _, name := range []string{std.ToolWeather, std.ToolAirQuality, std.ToolAttractions} {
		require.NoError(t, reg.Register(argsTool{name: name}))
	}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, reg)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestHealthAndList(t *testing.T) {
	app := newTestApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","tools":3}`, string(body))

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/tools", "")
	assert.Equal(t, http.StatusOK, status)
	var defs []tools.ToolDefinition
	require.NoError(t, json.Unmarshal(body, &defs))
	require.Len(t, defs, 3)
	assert.Equal(t, std.ToolAttractions, defs[0].Name)
}

func TestInvokeTool(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantResult string
	}{
		{
			name:       "raw args",
			target:     "/api/v1/tools/get_weather_forecast",
			body:       `{"location":"Toronto"}`,
			wantStatus: http.StatusOK,
			wantResult: `{"location":"Toronto"}`,
		},
		{
			name:       "empty body",
			target:     "/api/v1/tools/get_air_quality",
			wantStatus: http.StatusOK,
			wantResult: `{}`,
		},
		{
			name:       "tool error stays in result",
			target:     "/api/v1/tools/find_tourist_attractions",
			body:       `{"city":"fail"}`,
			wantStatus: http.StatusOK,
			wantResult: "Error: city is required",
		},
		{
			name:       "unknown tool",
			target:     "/api/v1/tools/get_wb_products",
			body:       `{}`,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, app, http.MethodPost, tt.target, tt.body)
			require.Equal(t, tt.wantStatus, status, string(body))
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, string(body), `"error":true`)
				return
			}
			var resp InvokeResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Equal(t, tt.wantResult, resp.Result)
			assert.Equal(t, strings.TrimPrefix(tt.target, "/api/v1/tools/"), resp.Tool)
		})
	}
}

func TestQueryRoutes(t *testing.T) {
	app := newTestApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/api/v1/weather?location=Toronto", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"tool":"get_weather_forecast","result":"{\"location\":\"Toronto\"}"}`, string(body))

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/attractions?city=Chicago&num_results=3", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `num_results\":3`)

	status, body = doRequest(t, app, http.MethodGet, "/api/v1/attractions?city=Chicago", "")
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(body), "num_results")

	for _, target := range []string{
		"/api/v1/weather",
		"/api/v1/air-quality?location=",
		"/api/v1/attractions?num_results=3",
		"/api/v1/attractions?city=Chicago&num_results=50",
	} {
		status, _ = doRequest(t, app, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, status, target)
	}
}
