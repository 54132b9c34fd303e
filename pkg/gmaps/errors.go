package gmaps

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/ilkoid/poncho-travel/pkg/utils"
)

var (
	// ErrLocationNotFound - место не удалось геокодировать (любая причина).
	ErrLocationNotFound = errors.New("location not found")
	// ErrDataUnavailable - запрос успешен, но ожидаемого блока данных нет.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrCircuitOpen - breaker сервиса открыт после серии сбоев.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// ResolutionError - геокодинг не дал координат.
//
// Причины не различаются: статус не OK, пустой список, сеть, битый JSON.
type ResolutionError struct {
	Place  string
	Status string // статус геокодера, если ответ был разобран
	Err    error  // причина на транспортном уровне
}

func (e *ResolutionError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("could not find location '%s': %v", e.Place, e.Err)
	case e.Status != "":
		return fmt.Sprintf("could not find location '%s': status %s", e.Place, e.Status)
	default:
		return fmt.Sprintf("could not find location '%s'", e.Place)
	}
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func (e *ResolutionError) Is(target error) bool { return target == ErrLocationNotFound }

// ToolMessage - текст для агента.
func (e *ResolutionError) ToolMessage() string {
	return fmt.Sprintf("Error: Could not find location '%s'", e.Place)
}

// StatusError - провайдер ответил не 200.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func newStatusError(service string, raw *rawResponse) *StatusError {
	return &StatusError{
		Service: service,
		Code:    raw.status,
		Body:    utils.Truncate(utils.OneLine(string(raw.body)), 200),
	}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error: HTTP %d", e.Service, e.Code)
}

// ToolMessage - текст для агента, код статуса передаётся как есть.
//
// Погода и воздух отвечают коротким текстом. Places падает по общему
// пути, поэтому его текст идёт с префиксом "Error: ".
func (e *StatusError) ToolMessage() string {
	if e.Service == ServicePlaces {
		return "Error: " + e.Error()
	}
	return e.Error()
}

// DataUnavailableError - ответ без ожидаемого блока данных.
//
// Это не сбой: агент получает нормальный, хоть и пустой, результат.
type DataUnavailableError struct {
	Subject  string // "Weather"
	Location string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s data not available for %s", e.Subject, e.Location)
}

func (e *DataUnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

// ToolMessage - текст для агента.
func (e *DataUnavailableError) ToolMessage() string {
	return e.Error()
}

// ErrorType представляет тип ошибки при работе с Maps API.
type ErrorType int

const (
	ErrUnknown ErrorType = iota
	ErrNotFound
	ErrNoData
	ErrAuthFailed
	ErrRateLimit
	ErrTimeout
	ErrNetwork
	ErrServer
	ErrBreakerOpen
)

// String возвращает строковое представление типа ошибки.
func (e ErrorType) String() string {
	switch e {
	case ErrNotFound:
		return "location_not_found"
	case ErrNoData:
		return "data_unavailable"
	case ErrAuthFailed:
		return "authentication_failed"
	case ErrRateLimit:
		return "rate_limit"
	case ErrTimeout:
		return "timeout"
	case ErrNetwork:
		return "network_error"
	case ErrServer:
		return "server_error"
	case ErrBreakerOpen:
		return "circuit_open"
	default:
		return "unknown"
	}
}

// HumanMessage возвращает человекочитаемое сообщение для типа ошибки.
func (e ErrorType) HumanMessage() string {
	switch e {
	case ErrNotFound:
		return "Место не найдено геокодером."
	case ErrNoData:
		return "Провайдер не вернул данных для этой точки."
	case ErrAuthFailed:
		return "API ключ недействителен или у него нет доступа к API. Проверьте GOOGLE_MAPS_API_KEY."
	case ErrRateLimit:
		return "Превышен лимит запросов. Подождите перед следующей попыткой."
	case ErrTimeout:
		return "Превышено время ожидания ответа Google API."
	case ErrNetwork:
		return "Google API недоступен. Проверьте подключение к интернету."
	case ErrServer:
		return "Сервер Google API вернул ошибку."
	case ErrBreakerOpen:
		return "Сервис временно отключен после серии сбоев."
	default:
		return "Неизвестная ошибка при обращении к Google API."
	}
}

// ClassifyError классифицирует ошибку по типу для логов и диагностики.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrUnknown
	}

	if errors.Is(err, ErrLocationNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, ErrDataUnavailable) {
		return ErrNoData
	}
	if errors.Is(err, ErrCircuitOpen) {
		return ErrBreakerOpen
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code == http.StatusUnauthorized || statusErr.Code == http.StatusForbidden:
			return ErrAuthFailed
		case statusErr.Code == http.StatusTooManyRequests:
			return ErrRateLimit
		case statusErr.Code >= 500:
			return ErrServer
		default:
			return ErrUnknown
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetwork
	}

	return ErrUnknown
}
