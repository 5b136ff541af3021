package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Logger derives a request logger from logger and stores it in the request
// user context, so handlers and services can log with zerolog.Ctx.
func Logger(logger *zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDHeader, requestID)

		reqLogger := logger.With().
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("remote_ip", c.IP()).
			Logger()
		c.SetUserContext(reqLogger.WithContext(c.UserContext()))

		start := time.Now()
		err := c.Next()

		l := RequestLogger(c)
		event := l.Info()
		if err != nil {
			event = l.Error().Err(err)
		}
		event.
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request handled")
		return err
	}
}

// RequestLogger returns the logger Logger attached to the request, or a
// disabled logger.
func RequestLogger(c *fiber.Ctx) *zerolog.Logger {
	return zerolog.Ctx(c.UserContext())
}
