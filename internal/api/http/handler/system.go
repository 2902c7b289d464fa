package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/hawkstone-global/hawkstone_backend/internal/api/http/middleware"
)

// GET /api/health
func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// NotFound answers any route nothing else matched.
func NotFound(c fiber.Ctx) error {
	return notFound(c, "API route not found", fiber.Map{
		"method":      c.Method(),
		"url":         c.OriginalURL(),
		"path":        c.Path(),
		"originalUrl": c.OriginalURL(),
	})
}

// ErrorHandler renders errors that escape handlers in the same
// {message} shape the forms expect.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		rid, _ := middleware.RequestIDFromFiber(c)
		slog.ErrorContext(c.Context(), "unhandled request error",
			slog.String("request_id", rid),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
	}

	return c.Status(code).JSON(fiber.Map{"message": msg})
}
