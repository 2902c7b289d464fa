package handler

import "github.com/gofiber/fiber/v3"

// The public site's forms read a top-level "message" from every response.

func ok(c fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"message": msg})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
}

func notFound(c fiber.Ctx, msg string, debug fiber.Map) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": msg, "debug": debug})
}

func internalError(c fiber.Ctx, msg string, detail error) error {
	body := fiber.Map{"message": msg}
	if detail != nil {
		body["error"] = detail.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}
