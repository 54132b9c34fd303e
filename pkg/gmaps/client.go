// Package gmaps provides a small SDK for the Google Maps Platform endpoints
// used by the travel tools: Geocoding, Weather, Air Quality and Places.
//
// Architecture:
//
//   - pkg/gmaps - SDK: HTTP transport, auth headers, response decoding, error taxonomy
//   - pkg/tools/std - thin tool wrappers that compose SDK calls for the LLM
//
// Every call makes exactly one attempt. A per-endpoint rate limiter paces
// outgoing requests and a per-service circuit breaker short-circuits after
// repeated 5xx/transport failures; neither retries.
package gmaps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ilkoid/poncho-travel/pkg/config"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Имена сервисов - используются в текстах ошибок и как ключи лимитеров.
const (
	ServiceGeocoding  = "Geocoding API"
	ServiceWeather    = "Weather API"
	ServiceAirQuality = "Air Quality API"
	ServicePlaces     = "Places API"
)

// HTTPClient интерфейс для выполнения HTTP запросов.
//
// Позволяет мокировать HTTP клиент в тестах.
// Стандартный *http.Client реализует этот интерфейс.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoints - полные URL методов API.
type Endpoints struct {
	Geocode    string
	Weather    string
	AirQuality string
	Places     string
}

// Client - клиент Google Maps Platform.
//
// Безопасен для параллельного использования: лимитеры и breakers
// создаются лениво под мьютексом, запросы не разделяют состояние.
type Client struct {
	apiKey     string
	endpoints  Endpoints
	httpClient HTTPClient

	rateLimit       int // запросов в минуту
	burst           int
	breakerFailures uint32
	breakerTimeout  time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewFromConfig создает клиент из секции maps конфигурации.
//
// Поля с нулевыми значениями используют дефолты MapsConfig.GetDefaults().
func NewFromConfig(cfg config.MapsConfig) (*Client, error) {
	cfg = cfg.GetDefaults()

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("maps.api_key is required")
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid maps.timeout format: %w", err)
	}
	breakerTimeout, err := time.ParseDuration(cfg.BreakerTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid maps.breaker_timeout format: %w", err)
	}

	return &Client{
		apiKey: cfg.APIKey,
		endpoints: Endpoints{
			Geocode:    cfg.GeocodeURL,
			Weather:    cfg.WeatherURL,
			AirQuality: cfg.AirQualityURL,
			Places:     cfg.PlacesURL,
		},
		httpClient:      &http.Client{Timeout: timeout},
		rateLimit:       cfg.RateLimit,
		burst:           cfg.BurstLimit,
		breakerFailures: uint32(cfg.BreakerFailures),
		breakerTimeout:  breakerTimeout,
		limiters:        make(map[string]*rate.Limiter),
		breakers:        make(map[string]*gobreaker.CircuitBreaker),
	}, nil
}

// SetHTTPClient подменяет транспорт (тесты, прокси).
func (c *Client) SetHTTPClient(h HTTPClient) {
	c.httpClient = h
}

// httpRequest описывает параметры HTTP запроса.
type httpRequest struct {
	method  string
	url     string
	body    []byte
	headers map[string]string
}

// getJSON выполняет GET с query параметрами и декодирует ответ в dest.
func (c *Client) getJSON(ctx context.Context, service, endpoint string, params url.Values, dest any) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	body, err := c.doRequest(ctx, service, httpRequest{
		method: http.MethodGet,
		url:    u.String(),
	})
	if err != nil {
		return err
	}
	return decode(service, body, dest)
}

// postJSON выполняет POST с JSON телом и декодирует ответ в dest.
func (c *Client) postJSON(ctx context.Context, service, endpoint string, headers map[string]string, payload, dest any) error {
	bodyJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	body, err := c.doRequest(ctx, service, httpRequest{
		method:  http.MethodPost,
		url:     endpoint,
		body:    bodyJSON,
		headers: headers,
	})
	if err != nil {
		return err
	}
	return decode(service, body, dest)
}

// rawResponse - ответ, прочитанный внутри circuit breaker.
type rawResponse struct {
	status int
	body   []byte
}

// doRequest выполняет одну попытку запроса.
//
// Возвращает тело ответа при HTTP 200 и *StatusError для любого другого кода.
// Breaker учитывает как сбой только сетевые ошибки, 429 и 5xx.
func (c *Client) doRequest(ctx context.Context, service string, req httpRequest) ([]byte, error) {
	if err := c.limiter(service).Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	result, err := c.breaker(service).Execute(func() (interface{}, error) {
		var reader io.Reader
		if req.body != nil {
			reader = bytes.NewReader(req.body)
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.method, req.url, reader)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Accept", "application/json")
		if req.body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if req.method != http.MethodGet {
			httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
		}
		for k, v := range req.headers {
			httpReq.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}

		raw := &rawResponse{status: resp.StatusCode, body: body}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return raw, newStatusError(service, raw)
		}
		return raw, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s: %w", service, ErrCircuitOpen)
	}
	if err != nil {
		return nil, err
	}

	raw, ok := result.(*rawResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker: %T", result)
	}
	if raw.status != http.StatusOK {
		return nil, newStatusError(service, raw)
	}
	return raw.body, nil
}

// limiter возвращает limiter сервиса, создавая его при первом обращении.
//
// rateLimit задан в запросах/минуту → rate.Limit в запросах/секунду.
func (c *Client) limiter(service string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.limiters[service]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(float64(c.rateLimit)/60.0), c.burst)
	c.limiters[service] = l
	return l
}

// breaker возвращает circuit breaker сервиса, создавая его при первом обращении.
func (c *Client) breaker(service string) *gobreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.breakers[service]; ok {
		return b
	}
	threshold := c.breakerFailures
	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        service,
		MaxRequests: 1,
		Timeout:     c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
	c.breakers[service] = b
	return b
}

func decode(service string, body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%s: unmarshal error: %w", service, err)
	}
	return nil
}
