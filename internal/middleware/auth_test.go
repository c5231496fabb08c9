package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hcastells/fincas/internal/models"
	"github.com/hcastells/fincas/internal/storage"
	"github.com/hcastells/fincas/internal/token"
)

func setupAuthTest(t *testing.T, expiration time.Duration) (*fiber.App, *token.Service, storage.Storage) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	store, err := storage.NewGormStorageWithDB(db)
	require.NoError(t, err, "failed to migrate tables")

	tokens := token.NewService("test-secret", expiration)
	mw := NewAuthMiddleware(tokens, store)

	app := fiber.New()
	app.Use(mw.Authenticate())
	app.Get("/protegido", mw.RequireAuthenticated(), func(c *fiber.Ctx) error {
		user := c.Locals(LocalsUser).(*models.User)
		return c.JSON(fiber.Map{"usuario": user.Username})
	})
	app.Get("/admin", mw.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app, tokens, store
}

func createTestUser(t *testing.T, store storage.Storage, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{Username: username, Password: "hash", Role: role}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func doRequest(t *testing.T, app *fiber.App, path, bearer string) int {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestAuthenticate_AnonymousRejectedByPolicy(t *testing.T) {
	app, _, _ := setupAuthTest(t, time.Hour)

	assert.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "/protegido", ""))
	assert.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "/admin", ""))
}

func TestAuthenticate_WrongScheme(t *testing.T) {
	app, _, _ := setupAuthTest(t, time.Hour)

	req := httptest.NewRequest("GET", "/protegido", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	app, tokens, store := setupAuthTest(t, time.Hour)
	user := createTestUser(t, store, "laura", models.RoleUser)

	tokenString, err := tokens.Issue(user)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, doRequest(t, app, "/protegido", tokenString))
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	app, tokens, store := setupAuthTest(t, -time.Minute)
	user := createTestUser(t, store, "laura", models.RoleUser)

	tokenString, err := tokens.Issue(user)
	require.NoError(t, err)

	// Expired token means anonymous, and the policy rejects.
	assert.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "/protegido", tokenString))
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	app, _, _ := setupAuthTest(t, time.Hour)

	assert.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "/protegido", "not-a-token"))
}

func TestAuthenticate_UnknownSubject(t *testing.T) {
	app, tokens, _ := setupAuthTest(t, time.Hour)

	// Token names a user that was never stored.
	ghost := &models.User{Username: "fantasma", Role: models.RoleUser}
	tokenString, err := tokens.Issue(ghost)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "/protegido", tokenString))
}

func TestRequireRole(t *testing.T) {
	app, tokens, store := setupAuthTest(t, time.Hour)

	admin := createTestUser(t, store, "admin", models.RoleAdmin)
	user := createTestUser(t, store, "laura", models.RoleUser)

	adminToken, err := tokens.Issue(admin)
	require.NoError(t, err)
	userToken, err := tokens.Issue(user)
	require.NoError(t, err)

	t.Run("admin allowed", func(t *testing.T) {
		assert.Equal(t, fiber.StatusOK, doRequest(t, app, "/admin", adminToken))
	})

	t.Run("user forbidden", func(t *testing.T) {
		assert.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/admin", userToken))
	})
}
