package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"ifore/config"
	"ifore/middleware"
	"ifore/models"
	"ifore/store"
	"ifore/utils"
)

const tokenTTL = 72 * time.Hour

// HandleLogin authenticates a user and returns a JWT token.
// POST /api/v1/auth/login
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Missing required fields (email, password)"})
	}

	logger := middleware.RequestLogger(c)
	user, passwordHash, err := h.users.GetUserByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid credentials"})
		}
		logger.Error().Err(err).Str("email", req.Email).Msg("database error during login")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid credentials"})
	}

	role, ok := utils.ValidateAndNormalizeRole(user.Role)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "User role is not allowed"})
	}

	token, err := createJWT(user.ID, role, time.Now())
	if err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("error creating JWT")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not sign token"})
	}

	return success(c, "Login successful", models.LoginResponse{Token: token, User: *user})
}

// --- Helper Functions ---

func createJWT(userID int64, role string, now time.Time) (string, error) {
	claims := models.JwtClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}
