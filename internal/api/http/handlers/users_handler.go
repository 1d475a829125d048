package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-service/internal/api/dto"
	"github.com/spec-kit/store-service/internal/render"
	"github.com/spec-kit/store-service/internal/service"
	apperrors "github.com/spec-kit/store-service/pkg/util/errorutil"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /api/user/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req, "username, email, password are required"); err != nil {
		return err
	}

	session, err := h.auth.RegisterUser(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return render.Send(c, http.StatusCreated, render.Success(render.RootResponse, dto.NewAuthResponse(session)))
}

// Login handles POST /api/user/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req, "email, password are required"); err != nil {
		return err
	}

	session, err := h.auth.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return render.Send(c, http.StatusOK, render.Success(render.RootResponse, dto.NewAuthResponse(session)))
}
