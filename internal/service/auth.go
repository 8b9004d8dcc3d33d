package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/videobite-server/internal/apierror"
	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/model"
)

// dummyPassword is hashed once and compared against on unknown-email logins
// so both failure paths cost one bcrypt comparison.
const dummyPassword = "videobite-dummy-password"

type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenService *TokenService
	adminEmails  map[string]struct{}
	logger       *logger.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	adminEmails []string,
	logger *logger.Logger,
) *Auth {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = normalizeEmail(email); email != "" {
			admins[email] = struct{}{}
		}
	}

	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: tokenService,
		adminEmails:  admins,
		logger:       logger,
	}
}

func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.Session, error) {
	email := normalizeEmail(params.Email)

	a.logger.DebugContext(ctx, "Auth service: starting user registration",
		"email", email)

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.InfoContext(ctx, "Auth service: user already exists",
			"email", email)
		return model.Session{}, apierror.NewErrEmailIsTaken(email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.ErrorContext(ctx, "Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleUser
	if _, ok := a.adminEmails[email]; ok {
		role = model.RoleAdmin
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.Session{}, apierror.NewErrEmailIsTaken(email)
		}
		a.logger.ErrorContext(ctx, "Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := a.tokenService.Issue(user)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.InfoContext(ctx, "Auth service: user registered",
		"user_id", user.ID,
		"role", user.Role)

	return model.Session{Token: token, User: user}, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = normalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		_ = a.hasher.Compare(a.dummy(), password)
		a.logger.InfoContext(ctx, "Auth service: login for unknown email",
			"email", email)
		return model.Session{}, apierror.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		a.logger.InfoContext(ctx, "Auth service: wrong password",
			"user_id", user.ID)
		return model.Session{}, apierror.NewErrInvalidCredentials()
	}

	token, err := a.tokenService.Issue(user)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return model.Session{Token: token, User: user}, nil
}

func (a *Auth) Me(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NewErrUserNotFound()
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (a *Auth) dummy() []byte {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash(dummyPassword)
		if err != nil {
			a.logger.Error("Auth service: failed to prepare dummy hash",
				"error", err.Error())
			return
		}
		a.dummyHash = hash
	})
	return a.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
