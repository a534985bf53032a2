package handlers

import (
	"bakery/dataset"
	"bakery/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HandleGetDataHealth reports how the loaded history was cleaned and how many
// dates in the file miss the strict YYYYMMDD form.
// GET /api/v1/data/health
func (h *Handler) HandleGetDataHealth(c *fiber.Ctx) error {
	data := fiber.Map{"loaded": false}

	if hist := h.history.Get(); hist != nil {
		data["loaded"] = true
		data["loaded_at"] = hist.LoadedAt()
		data["records"] = hist.Len()
		data["load"] = hist.Report()
	}

	health, err := dataset.CheckHealth(h.historyPath)
	if err != nil {
		logger.Warn("[DATA HEALTH] check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to check history file",
		})
	}
	data["health"] = health

	return c.JSON(fiber.Map{"status": "success", "data": data})
}
