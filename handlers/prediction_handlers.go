package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HandleGetPrediction forecasts income and every configured category.
// GET /api/v1/prediction
func (h *Handler) HandleGetPrediction(c *fiber.Ctx) error {
	bundle, err := h.analytics.PredictionBundle(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "Get prediction data", bundle)
}

// HandleGetPredictionInsight asks the AI model to explain the current forecast.
// GET /api/v1/prediction/insight
func (h *Handler) HandleGetPredictionInsight(c *fiber.Ctx) error {
	if h.explainer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "message": "AI insight is not configured"})
	}

	ctx := c.UserContext()
	bundle, err := h.analytics.PredictionBundle(ctx)
	if err != nil {
		return respondError(c, err)
	}
	insight, err := h.explainer.Explain(ctx, bundle)
	if err != nil {
		return respondError(c, fiber.NewError(fiber.StatusBadGateway, err.Error()))
	}
	return success(c, "Get prediction insight", fiber.Map{"prediction": bundle, "insight": insight})
}
