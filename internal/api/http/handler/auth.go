package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/dtroode/videobite-server/internal/apierror"
	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/model"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.Session, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
	Me(ctx context.Context, id uuid.UUID) (model.User, error)
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates an account and returns a token for it.
func (h *Auth) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Register(c.Context(), model.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.logger.InfoContext(c.Context(), "Auth handler: registration completed",
		"user_id", session.User.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   session.Token,
		"user":    newUserView(session.User),
	})
}

// Login exchanges credentials for a token.
func (h *Auth) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   session.Token,
		"user":    newUserView(session.User),
	})
}

// Me returns the authenticated user.
func (h *Auth) Me(c fiber.Ctx) error {
	principal, ok := h.contextManager.GetPrincipalFromContext(c.Context())
	if !ok {
		return apierror.NewErrUnauthorized()
	}

	user, err := h.authService.Me(c.Context(), principal.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    newUserView(user),
	})
}

// bind decodes the JSON body into out and runs the app's struct validator.
func bind(c fiber.Ctx, out any) error {
	if err := c.Bind().JSON(out); err != nil {
		if _, ok := apierror.As(err); ok {
			return err
		}
		return apierror.NewErrValidation("invalid request body")
	}
	return nil
}
