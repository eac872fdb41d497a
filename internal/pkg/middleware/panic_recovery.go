package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/logger"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/utils"
)

// PanicRecoveryMiddleware recovers from handler panics, logs the stack trace
// and returns a 500 response instead of tearing down the connection
func PanicRecoveryMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					handlePanic(c, r)
				}
			}()

			return next(c)
		}
	}
}

func handlePanic(c echo.Context, r interface{}) {
	logger.Error("panic recovered", logger.Fields{
		"panic":      r,
		"method":     c.Request().Method,
		"path":       c.Request().URL.Path,
		"client_ip":  c.RealIP(),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		"stack":      string(debug.Stack()),
	})

	if !c.Response().Committed {
		_ = utils.ErrorResponseHandler(c, http.StatusInternalServerError, "Internal server error")
	}
}
