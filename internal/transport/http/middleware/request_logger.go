// Package middleware contains HTTP middlewares for delivery.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs each request once it completes. 5xx responses are
// logged at error level and 4xx at warn.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the app error handler set the final status before logging
			if herr := c.App().ErrorHandler(c, err); herr == nil {
				err = nil
			}
		}

		reqID, _ := c.Locals("requestid").(string)
		if reqID == "" {
			reqID = c.Get(fiber.HeaderXRequestID)
		}
		status := c.Response().StatusCode()
		kv := []any{
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", status,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"request_id", reqID,
		}
		if email := c.Get(HeaderUserEmail); email != "" {
			kv = append(kv, "user_email", email)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Errorw("http", kv...)
		case status >= fiber.StatusBadRequest:
			log.Warnw("http", kv...)
		default:
			log.Infow("http", kv...)
		}
		return err
	}
}
