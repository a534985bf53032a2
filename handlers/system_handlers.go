package handlers

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) HandleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "history_records": h.history.Get().Len()})
}

func (h *Handler) HandleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString("<pre>\n" + info.String() + "</pre>\n")
}

func (h *Handler) HandleDBPing(c *fiber.Ctx) error {
	if err := h.db.Ping(c.UserContext()); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Database ping failed: " + err.Error())
	}
	return c.SendString("Database ping successful!")
}
