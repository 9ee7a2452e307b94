package auth

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"portaldesa.com/gate/pg/model"
)

// AuthHandlers provides the portal's credential endpoints: login, logout,
// whoami and admin-gated user creation.
type AuthHandlers struct {
	service   *AuthService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewAuthHandlers creates the handler set.
func NewAuthHandlers(service *AuthService, logger *slog.Logger) *AuthHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandlers{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=operator editor admin"`
}

type LoginResponse struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int         `json:"expires_in"`
}

// IdentityResponse is the whoami payload the session store re-validates
// against.
type IdentityResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Login handles POST /auth/login. On success the credential is returned in
// the body and set as the portal cookie.
func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Validation failed: " + err.Error(),
		})
	}

	token, user, err := h.service.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return handleAuthError(c, err)
	}

	ttl := h.service.TokenTTL()
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(LoginResponse{
		User:      user,
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(ttl.Seconds()),
	})
}

// Logout handles POST /auth/logout: the credential's jti is denylisted and
// the cookie cleared in the same response.
func (h *AuthHandlers) Logout(c *fiber.Ctx) error {
	if token, ok := credentialFromCtx(c); ok {
		if err := h.service.Logout(c.Context(), token); err != nil {
			h.logger.Warn("logout revocation failed", "error", err)
		}
	}

	clearCredentialCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// WhoAmI handles GET /auth/whoami: it returns the identity behind a valid,
// unrevoked credential of an active account, or 401.
func (h *AuthHandlers) WhoAmI(c *fiber.Ctx) error {
	token, ok := credentialFromCtx(c)
	if !ok {
		return handleAuthError(c, ErrNoCredential)
	}

	claims, err := h.service.WhoAmI(c.Context(), token)
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.JSON(IdentityResponse{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	})
}

// CreateUser handles POST /auth/users. Route registration gates it behind
// the admin role.
func (h *AuthHandlers) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Validation failed: " + err.Error(),
		})
	}

	if err := h.service.CreateUser(c.Context(), req.Username, req.Email, req.Password, req.Role); err != nil {
		return handleAuthError(c, err)
	}

	return c.SendStatus(fiber.StatusCreated)
}

// credentialFromCtx resolves the request credential, cookie before header.
func credentialFromCtx(c *fiber.Ctx) (string, bool) {
	return CredentialFrom(c.Cookies(CookieName), c.Get(fiber.HeaderAuthorization))
}

// clearCredentialCookie expires the portal credential cookie.
func clearCredentialCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// handleAuthError writes a structured auth error without leaking internals.
func handleAuthError(c *fiber.Ctx, err error) error {
	if authErr, ok := err.(*AuthError); ok {
		return c.Status(authErr.Code).JSON(fiber.Map{"error": authErr.Message})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
}
