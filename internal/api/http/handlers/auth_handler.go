package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/audit-chat-service/internal/api/dto"
	"github.com/spec-kit/audit-chat-service/internal/auth"
	"github.com/spec-kit/audit-chat-service/internal/service"
	apperrors "github.com/spec-kit/audit-chat-service/pkg/util"
)

// AuthHandler exposes registration, login and the isAuth probe.
type AuthHandler struct {
	auth         *service.AuthService
	cookieMaxAge int
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, cookieMaxAgeSeconds int) *AuthHandler {
	return &AuthHandler{auth: authService, cookieMaxAge: cookieMaxAgeSeconds}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	token, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return c.SendString("User registered successfully")
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return c.SendString("User logged in successfully")
}

// IsAuth handles GET /api/v1/auth/isAuth. The request authenticator already
// resolved the subject; this only confirms the account is still live.
func (h *AuthHandler) IsAuth(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("User not authenticated")
	}

	status, err := h.auth.IsAuth(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(status)
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		HTTPOnly: true,
	})
}
