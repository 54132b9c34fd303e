// Package httpapi открывает реестр инструментов по HTTP (fiber).
//
// Внешний оркестратор может вызывать адаптеры напрямую:
// POST /api/v1/tools/:name с сырыми JSON аргументами в теле.
package httpapi

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ilkoid/poncho-travel/pkg/tools"
	"github.com/ilkoid/poncho-travel/pkg/tools/std"
)

var validate = validator.New()

// InvokeResponse - ответ вызова инструмента.
//
// Result всегда строка: JSON данных либо текст "Error: ...".
type InvokeResponse struct {
	Tool   string `json:"tool"`
	Result string `json:"result"`
}

// RegisterRoutes подключает обработчики к приложению fiber.
func RegisterRoutes(app *fiber.App, registry *tools.Registry) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"tools":  len(registry.Names()),
		})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/tools", func(c *fiber.Ctx) error {
		return c.JSON(registry.GetDefinitions())
	})

	v1.Post("/tools/:name", func(c *fiber.Ctx) error {
		name := c.Params("name")
		if _, err := registry.Get(name); err != nil {
			if errors.Is(err, tools.ErrToolNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		body := string(c.Body())
		if body == "" {
			body = "{}"
		}
		return invoke(c, registry, name, body)
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q := locationQuery{Location: c.Query("location")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return invokeArgs(c, registry, std.ToolWeather, q)
	})

	v1.Get("/air-quality", func(c *fiber.Ctx) error {
		q := locationQuery{Location: c.Query("location")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return invokeArgs(c, registry, std.ToolAirQuality, q)
	})

	v1.Get("/attractions", func(c *fiber.Ctx) error {
		q := attractionsQuery{
			City:       c.Query("city"),
			NumResults: c.QueryInt("num_results", 0),
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return invokeArgs(c, registry, std.ToolAttractions, q)
	})
}

// locationQuery - параметры погоды и качества воздуха.
type locationQuery struct {
	Location string `json:"location" validate:"required"`
}

// attractionsQuery - параметры поиска достопримечательностей.
//
// num_results=0 означает лимит по умолчанию.
type attractionsQuery struct {
	City       string `json:"city" validate:"required"`
	NumResults int    `json:"num_results,omitempty" validate:"gte=0,lte=20"`
}

func invokeArgs(c *fiber.Ctx, registry *tools.Registry, name string, args any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return invoke(c, registry, name, string(raw))
}

// invoke вызывает инструмент через реестр.
//
// Ошибки адаптеров приходят текстом в result со статусом 200,
// как их увидел бы агент.
func invoke(c *fiber.Ctx, registry *tools.Registry, name, args string) error {
	result := registry.Invoke(c.UserContext(), name, args)
	return c.JSON(InvokeResponse{Tool: name, Result: result})
}

// ErrorHandler - единый формат ошибок {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
