package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"ifore/analytics"
	"ifore/middleware"
	"ifore/models"
	"ifore/store"
)

// Analytics is the query side served over HTTP.
type Analytics interface {
	CardSummary(ctx context.Context, start, end time.Time) (*models.CardSummary, error)
	IncomeProfitSeries(ctx context.Context, categories []string) (*models.IncomeProfitSeries, error)
	CategorySeries(ctx context.Context, start, end time.Time) ([]models.CategoryQty, error)
	PredictionBundle(ctx context.Context) (*models.PredictionBundle, error)
	TransactionHistory(ctx context.Context) ([]models.Transaction, error)
	Transaction(ctx context.Context, id int64) (*models.Transaction, error)
}

// Explainer writes a qualitative reading of a prediction bundle.
type Explainer interface {
	Explain(ctx context.Context, bundle *models.PredictionBundle) (*models.PredictionInsight, error)
}

// Users looks up login accounts.
type Users interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, string, error)
	Ping(ctx context.Context) error
}

// Handler holds the dependencies of every route.
type Handler struct {
	analytics Analytics
	users     Users
	explainer Explainer
	loc       *time.Location
}

// New builds a Handler. explainer may be nil when no AI key is configured.
func New(a Analytics, users Users, explainer Explainer, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{analytics: a, users: users, explainer: explainer, loc: loc}
}

func success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{"status": "success", "message": message, "data": data})
}

// respondError maps err onto a status code and the error envelope.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var (
		inputErr *analytics.InputError
		compErr  *analytics.ComputationError
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &inputErr):
		status = fiber.StatusBadRequest
	case errors.As(err, &compErr):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
	}

	logger := middleware.RequestLogger(c)
	if status >= fiber.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Warn().Err(err).Int("status", status).Msg("request rejected")
	}
	return c.Status(status).JSON(fiber.Map{"status": "error", "message": err.Error()})
}

// HandleHealth checks the record store answers.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	if err := h.users.Ping(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "message": "Database unavailable"})
	}
	return c.JSON(fiber.Map{"status": "success", "message": "ok"})
}
