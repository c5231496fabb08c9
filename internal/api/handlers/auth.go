package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/hcastells/fincas/internal/models"
	"github.com/hcastells/fincas/internal/storage"
	"github.com/hcastells/fincas/internal/token"
	"github.com/hcastells/fincas/internal/validation"
)

type AuthHandler struct {
	store  storage.Storage
	tokens *token.Service
}

func NewAuthHandler(store storage.Storage, tokens *token.Service) *AuthHandler {
	return &AuthHandler{
		store:  store,
		tokens: tokens,
	}
}

// Login checks the credentials and returns a fresh token. Unknown users
// and wrong passwords produce the same response so usernames cannot be
// enumerated.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validation.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	user, err := h.authenticate(c.Context(), req)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	tokenString, err := h.tokens.Issue(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(models.TokenResponse{Token: tokenString})
}

func (h *AuthHandler) authenticate(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	user, err := h.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, storage.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, storage.ErrInvalidCredentials
	}

	return user, nil
}

// Register creates a new user and returns a token for it. The route is
// admin-only, so the caller is already authenticated as someone else;
// the token is a convenience for handing over to the new user.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validation.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := &models.User{
		Username: req.Username,
		Password: string(hash),
		Role:     req.Role,
	}

	if err := h.store.CreateUser(c.Context(), user); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	tokenString, err := h.tokens.Issue(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.TokenResponse{Token: tokenString})
}
