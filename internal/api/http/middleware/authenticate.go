package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/dtroode/videobite-server/internal/apierror"
	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/model"
)

// TokenService resolves principals from bearer tokens.
type TokenService interface {
	Principal(ctx context.Context, token string) (model.Principal, error)
}

// Authenticate validates bearer tokens and injects the principal into the request context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Required rejects requests without a valid token.
func (m *Authenticate) Required(c fiber.Ctx) error {
	return m.authenticate(c, true)
}

// Optional lets anonymous requests through but still rejects a token that
// is present and invalid.
func (m *Authenticate) Optional(c fiber.Ctx) error {
	return m.authenticate(c, false)
}

func (m *Authenticate) authenticate(c fiber.Ctx, required bool) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		if required {
			return apierror.NewErrMissingAuthorizationToken()
		}
		return c.Next()
	}

	principal, err := m.authenticateUser(c.Context(), bearerToken(header))
	if err != nil {
		m.logger.DebugContext(c.Context(), "Authenticate middleware: token rejected",
			"path", c.Path(),
			"error", err.Error())
		return err
	}

	c.SetContext(m.contextManager.SetPrincipalToContext(c.Context(), principal))
	return c.Next()
}

func (m *Authenticate) authenticateUser(ctx context.Context, token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, apierror.NewErrInvalidAuthorizationToken()
	}

	principal, err := m.tokenService.Principal(ctx, token)
	if err != nil {
		return model.Principal{}, apierror.NewErrInvalidAuthorizationToken()
	}

	if !principal.Authenticated() {
		return model.Principal{}, apierror.NewErrInvalidAuthorizationToken()
	}

	return principal, nil
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireRole rejects requests whose principal does not have role.
// It must run after Authenticate.Required.
func RequireRole(role model.Role, contextManager model.ContextManager) fiber.Handler {
	return func(c fiber.Ctx) error {
		principal, ok := contextManager.GetPrincipalFromContext(c.Context())
		if !ok {
			return apierror.NewErrUnauthorized()
		}
		if principal.Role != role {
			return apierror.NewErrForbidden()
		}
		return c.Next()
	}
}
