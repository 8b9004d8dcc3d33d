package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/videobite-server/internal/apierror"
	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/model"
)

// TokenService issues access tokens for users and resolves presented tokens
// into principals. Tokens are stateless; nothing is persisted.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

func (s *TokenService) Issue(user model.User) (string, error) {
	token, err := s.manager.GenerateToken(model.Principal{UserID: user.ID, Role: user.Role})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *TokenService) Principal(ctx context.Context, token string) (model.Principal, error) {
	principal, err := s.manager.ParseToken(token)
	if err != nil {
		if errors.Is(err, model.ErrInvalidToken) {
			s.logger.DebugContext(ctx, "Token service: rejected token",
				"error", err.Error())
			return model.Principal{}, apierror.NewErrInvalidAuthorizationToken()
		}
		return model.Principal{}, fmt.Errorf("parse token: %w", err)
	}

	return principal, nil
}
