package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// respond renders the uniform success envelope.
func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func ok(c *fiber.Ctx, data any) error {
	return respond(c, http.StatusOK, data)
}

func created(c *fiber.Ctx, data any) error {
	return respond(c, http.StatusCreated, data)
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"success": true, "message": msg})
}

// paged wraps a list payload with pagination metadata.
func paged(c *fiber.Ctx, items any, total int64, page, limit int) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"items": items,
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func queryString(c *fiber.Ctx, key string) *string {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	return &val
}
