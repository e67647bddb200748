package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/witherow/biostack/internal/services"
)

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const minPasswordLength = 8

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	email := services.NormalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return apiError(c, fiber.StatusBadRequest, "valid email required")
	}
	if len(input.Password) < minPasswordLength {
		return apiError(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	user, err := handler.auth.Register(c.UserContext(), email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return apiError(c, fiber.StatusConflict, "email already exists")
		}
		handler.logger.Printf("register failed: %v", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	if err := handler.setAuthCookie(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.auth.Authenticate(c.UserContext(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		handler.logger.Printf("login failed: %v", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to sign in")
	}

	if err := handler.setAuthCookie(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) CurrentUser(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.JSON(fiber.Map{
		"id":         user.ID,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := handler.auth.DeleteAccount(c.UserContext(), user.ID); err != nil {
		handler.logger.Printf("delete account failed user=%d: %v", user.ID, err)
		return apiError(c, fiber.StatusInternalServerError, "failed to delete account")
	}
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}
