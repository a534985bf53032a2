package handlers

import (
	"math"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HandleGetModelForecast applies the trained model of a product to a day.
// The day defaults to tomorrow.
// GET /api/v1/forecast/:product?weather=&temp=&date=
func (h *Handler) HandleGetModelForecast(c *fiber.Ctx) error {
	product, err := url.PathUnescape(c.Params("product"))
	if err != nil || product == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid product"})
	}

	day := time.Now().AddDate(0, 0, 1)
	if raw := c.Query("date"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid date format, expected YYYY-MM-DD"})
		}
	}

	temp := c.QueryFloat("temp", 0)
	if math.IsNaN(temp) || math.IsInf(temp, 0) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid temperature"})
	}
	weather := c.Query("weather")

	result := h.catalog.Get().Forecast(product, weather, temp, day)
	return c.JSON(fiber.Map{"status": "success", "data": result})
}

// HandleGetSeasonality returns the weekday factors of one product.
// GET /api/v1/seasonality/:product
func (h *Handler) HandleGetSeasonality(c *fiber.Ctx) error {
	product, err := url.PathUnescape(c.Params("product"))
	if err != nil || product == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid product"})
	}

	doc, ok := h.catalog.Get().Seasonality(product)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "No seasonality for " + product})
	}
	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"product": product, "base_avg": doc.BaseAvg, "factors": doc.Factors}})
}
