package handlers

import (
	"bakery/logger"
	"bakery/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HandlePredict forecasts one product for one day using recent history and
// the language model.
// POST /predict
func (h *Handler) HandlePredict(c *fiber.Ctx) error {
	var req models.PredictionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	pred := h.predictor.Predict(c.UserContext(), req)

	fields := []zap.Field{
		zap.String("product", req.Product),
		zap.String("target_date", req.TargetDate),
		zap.String("source", string(pred.Source)),
		zap.Int("prediction", pred.Prediction),
	}
	// Set by JWTMiddleware when auth is enabled.
	if userID, ok := c.Locals("userID").(string); ok && userID != "" {
		role, _ := c.Locals("userRole").(string)
		fields = append(fields, zap.String("user_id", userID), zap.String("user_role", role))
	}
	logger.Info("[PREDICT] served", fields...)
	return c.JSON(pred.PredictionResponse)
}
