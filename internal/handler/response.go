package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds the database work of a single request.
const dbTimeout = 5 * time.Second

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Error   string       `json:"error,omitempty"`
	Stack   string       `json:"stack,omitempty"`
}

// ok writes a success envelope.
func ok(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: msg, Data: data})
}

// listOf wraps a collection with its length, under the given key.
func listOf(key string, items any, n int) echo.Map {
	return echo.Map{key: items, "total": n}
}

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// bindAndValidate decodes the request into dst and runs its validate tags.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return errInvalidBody
	}
	return c.Validate(dst)
}
