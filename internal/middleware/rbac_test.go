package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly-api/internal/models"
)

func roleApp(role interface{}, required string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != nil {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Use(RequireRole(required))
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		role     interface{}
		required string
		status   int
	}{
		{name: "teacher allowed", role: models.RoleTeacher, required: models.RoleTeacher, status: fiber.StatusOK},
		{name: "student rejected on teacher route", role: models.RoleStudent, required: models.RoleTeacher, status: fiber.StatusForbidden},
		{name: "case insensitive", role: "Teacher", required: models.RoleTeacher, status: fiber.StatusOK},
		{name: "missing role rejected", role: nil, required: models.RoleStudent, status: fiber.StatusForbidden},
		{name: "non-string role rejected", role: 42, required: models.RoleStudent, status: fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := roleApp(tc.role, tc.required)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
