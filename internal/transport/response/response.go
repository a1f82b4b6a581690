package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/garage_market/internal/apperr"
	"github.com/Skotchmaster/garage_market/internal/logging"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func JSON(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, Envelope{Success: status < http.StatusBadRequest, Message: msg, Data: data})
}

func OK(c echo.Context, msg string, data any) error {
	return JSON(c, http.StatusOK, msg, data)
}

func Created(c echo.Context, msg string, data any) error {
	return JSON(c, http.StatusCreated, msg, data)
}

// Error renders err as a failure envelope. Causes of internal errors are
// logged and never sent.
func Error(c echo.Context, err error) error {
	ae := apperr.As(err)
	if ae.Kind == apperr.KindInternal {
		logging.FromContext(c.Request().Context()).Error("internal_error",
			"path", c.Path(),
			"error", errString(ae.Err),
		)
	}
	return c.JSON(ae.Status(), Envelope{Success: false, Message: ae.Message, Errors: ae.Fields})
}

// ErrorHandler replaces echo's default error handler so that framework errors
// share the envelope.
func ErrorHandler(base *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code == http.StatusMethodNotAllowed {
				if werr := c.JSON(he.Code, Envelope{Message: "Method not allowed"}); werr != nil {
					base.Error("write_error_response", "error", werr)
				}
				return
			}
			err = fromHTTPError(he)
		}

		if werr := Error(c, err); werr != nil {
			base.Error("write_error_response", "error", werr)
		}
	}
}

func fromHTTPError(he *echo.HTTPError) *apperr.Error {
	switch he.Code {
	case http.StatusNotFound:
		return apperr.NotFound("Route not found")
	case http.StatusBadRequest:
		return apperr.Malformed("Invalid JSON format").Wrap(he)
	case http.StatusUnsupportedMediaType:
		return apperr.Malformed("Unsupported content type").Wrap(he)
	case http.StatusUnauthorized:
		return apperr.Unauthenticated(fmt.Sprint(he.Message))
	case http.StatusForbidden:
		return apperr.Forbidden(fmt.Sprint(he.Message))
	}
	if he.Code >= http.StatusInternalServerError {
		return apperr.Internal(he)
	}
	return apperr.Malformed(fmt.Sprint(he.Message)).Wrap(he)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
