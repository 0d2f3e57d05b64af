package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/observability"
	"github.com/spec-kit/support-ticket-service/pkg/util"
)

// ErrorHandler translates DomainError and fiber errors into JSON
// responses with the matching status code.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var domainErr *util.DomainError
		if errors.As(err, &domainErr) {
			status := util.HTTPStatus(domainErr.Code)
			if status >= fiber.StatusInternalServerError {
				logger.Error("request failed",
					zap.String("path", c.Path()),
					zap.String("code", string(domainErr.Code)),
					zap.Error(err))
			}
			return c.Status(status).JSON(fiber.Map{
				"error": fiber.Map{"code": domainErr.Code, "message": domainErr.Message},
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiber.Map{"code": "HTTP_ERROR", "message": fiberErr.Message},
			})
		}

		logger.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{"code": util.CodeInternal, "message": "internal server error"},
		})
	}
}

// RequestLogger records every request with latency and bumps the
// request counters.
func RequestLogger(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, requestID)

		err := c.Next()

		metrics.RequestsTotal.Add(1)
		status := c.Response().StatusCode()
		if err != nil || status >= fiber.StatusInternalServerError {
			metrics.RequestErrors.Add(1)
		}

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)))
		return err
	}
}
