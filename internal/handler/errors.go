package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/store-rating-platform/internal/apperr"
)

var errInvalidBody = apperr.BadRequest("Invalid request body")

// ErrorHandler renders every error returned by a handler or middleware as
// an Envelope. Outside production, internal failures also expose their
// cause and, when one was recorded by apperr.Internal, the stack of the
// call that failed.
func ErrorHandler(production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := render(err, production)
		if status >= http.StatusInternalServerError {
			logrus.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Request().URL.Path,
			}).Error("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logrus.WithError(werr).Warn("write error response")
		}
	}
}

func render(err error, production bool) (int, Envelope) {
	var (
		verr *ValidationError
		aerr *apperr.Error
		herr *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, Envelope{Message: "Validation failed", Errors: verr.Errors}

	case errors.As(err, &aerr) && aerr.Kind != apperr.KindInternal:
		return aerr.Kind.Status(), Envelope{Message: aerr.Message}

	case errors.As(err, &herr):
		switch herr.Code {
		case http.StatusNotFound:
			return herr.Code, Envelope{Message: "Route not found"}
		case http.StatusMethodNotAllowed:
			return herr.Code, Envelope{Message: "Method not allowed"}
		}
		if herr.Code < http.StatusInternalServerError {
			msg, _ := herr.Message.(string)
			if msg == "" {
				msg = http.StatusText(herr.Code)
			}
			return herr.Code, Envelope{Message: msg}
		}
	}

	body := Envelope{Message: "Internal server error"}
	if !production {
		body.Error = err.Error()
		body.Stack = string(apperr.StackOf(err))
	}
	return http.StatusInternalServerError, body
}
