package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"bookingapi/internal/logging"
)

// Logger writes one http_request entry per request with request_id, method, path,
// status and latency in milliseconds. 5xx responses log at error level.
func Logger(log logrus.FieldLogger) fiber.Handler {
	entry := logging.Component(log, "http")

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		e := entry.WithFields(logrus.Fields{
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		})
		if u := CurrentUser(c); u != nil {
			e = e.WithField("user_id", u.ID)
		}
		if status >= fiber.StatusInternalServerError {
			e.Error("http_request")
		} else {
			e.Info("http_request")
		}

		return err
	}
}
