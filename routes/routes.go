package routes

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"ifore/handlers"
	"ifore/middleware"
)

// NewApp builds the fiber app with the shared middleware and every route.
func NewApp(h *handlers.Handler, logger *zerolog.Logger, allowedOrigins []string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ifore",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.Logger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(allowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.RequestIDHeader,
	}))

	SetupRoutes(app, h)
	return app
}

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	app.Get("/healthz", h.HandleHealth)

	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/login", h.HandleLogin)

	// --- Dashboard Routes ---
	dashboard := api.Group("/dashboard", middleware.JWTMiddleware, middleware.RoleRequired())
	dashboard.Get("/card", h.HandleGetCardSummary)
	dashboard.Get("/income-profit", h.HandleGetIncomeProfit)
	dashboard.Get("/category", h.HandleGetCategoryTotals)

	// --- Prediction Routes ---
	prediction := api.Group("/prediction", middleware.JWTMiddleware, middleware.RoleRequired())
	prediction.Get("/", h.HandleGetPrediction)
	prediction.Get("/insight", h.HandleGetPredictionInsight)

	// --- Transaction Routes ---
	transactions := api.Group("/transactions", middleware.JWTMiddleware, middleware.RoleRequired())
	transactions.Get("/", h.HandleGetTransactionHistory)
	transactions.Get("/:id", h.HandleGetTransactionByID)
}
