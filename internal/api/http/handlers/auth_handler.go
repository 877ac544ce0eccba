package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// MsgAuthSuccess is returned by the authenticate endpoint.
const MsgAuthSuccess = "Autentikasi berhasil"

// AuthHandler exposes the registration, login and authenticate endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required")
	}
	identityType := domain.IdentityType(req.IdentityType)
	if !identityType.Valid() {
		return apperrors.NewValidationError("identity_type must be one of KTP, SIM, PASSPORT")
	}
	if req.IdentityNumber == "" || req.Address == "" {
		return apperrors.NewValidationError("identity_number and address required")
	}

	user, token, exp, err := h.auth.Register(c.Context(), service.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		IdentityType:   identityType,
		IdentityNumber: req.IdentityNumber,
		Address:        req.Address,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{Token: token, User: user, ExpiresAt: exp})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required")
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{Token: token, User: user, ExpiresAt: exp})
}

// Authenticate handles GET /auth/authenticate, behind the auth middleware. It
// echoes the claims the gate verified; no store lookup happens here.
func (h *AuthHandler) Authenticate(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.MsgTokenMissing)
	}

	return c.JSON(fiber.Map{
		"message": MsgAuthSuccess,
		"user":    claims,
	})
}
