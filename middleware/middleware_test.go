package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ifore/config"
	"ifore/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, userID int64, role string, expires time.Time) string {
	t.Helper()
	claims := models.JwtClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/test", JWTMiddleware, RoleRequired(), func(c *fiber.Ctx) error {
		claims, err := ExtractClaims(c)
		if err != nil {
			return err
		}
		return c.JSON(claims)
	})
	return app
}

func TestJWTMiddleware(t *testing.T) {
	config.AppConfig.JWTSecret = testSecret
	valid := signToken(t, testSecret, 7, "owner", time.Now().Add(time.Hour))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"no bearer prefix", valid, fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", 7, "owner", time.Now().Add(time.Hour)), fiber.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, 7, "owner", time.Now().Add(-time.Hour)), fiber.StatusUnauthorized},
		{"unknown role", "Bearer " + signToken(t, testSecret, 7, "merchant", time.Now().Add(time.Hour)), fiber.StatusForbidden},
		{"valid", "Bearer " + valid, fiber.StatusOK},
	}

	app := protectedApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

// Helper to create an app with a pre-local middleware that sets userRole
func makeAppWithRole(role string, check fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userRole", role)
		return c.Next()
	})
	app.Use(check)
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(200).SendString("ok")
	})
	return app
}

func TestRoleRequired(t *testing.T) {
	cases := []struct {
		role  string
		roles []string
		want  int
	}{
		{"admin", []string{"admin"}, 200},
		{"Admin", []string{"admin"}, 200},
		{"staff", []string{"admin", "owner"}, 403},
		{"staff", nil, 200},
		{"", nil, 403},
	}
	for _, tc := range cases {
		app := makeAppWithRole(tc.role, RoleRequired(tc.roles...))
		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, "role %q allowed %v", tc.role, tc.roles)
	}
}

func TestExtractClaimsWithoutToken(t *testing.T) {
	app := fiber.New()
	app.Get("/test", func(c *fiber.Ctx) error {
		_, err := ExtractClaims(c)
		return err
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoggerAttachesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	app := fiber.New()
	app.Use(Logger(&logger))
	app.Get("/test", func(c *fiber.Ctx) error {
		zerolog.Ctx(c.UserContext()).Info().Msg("inside handler")
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	id := resp.Header.Get(RequestIDHeader)
	require.NotEmpty(t, id)

	out := buf.String()
	assert.Contains(t, out, `"message":"inside handler"`)
	assert.Contains(t, out, `"request_id":"`+id+`"`)
	assert.Contains(t, out, `"status":200`)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}
