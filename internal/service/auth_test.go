package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/videobite-server/internal/apierror"
	"github.com/dtroode/videobite-server/internal/mocks"
	"github.com/dtroode/videobite-server/internal/model"
	"github.com/dtroode/videobite-server/internal/testutil"
)

type authDeps struct {
	users   *mocks.UserStore
	hasher  *mocks.PasswordHasher
	manager *mocks.TokenManager
}

func newTestAuth(t *testing.T, adminEmails ...string) (*Auth, authDeps) {
	t.Helper()

	deps := authDeps{
		users:   mocks.NewUserStore(t),
		hasher:  mocks.NewPasswordHasher(t),
		manager: mocks.NewTokenManager(t),
	}
	log := testutil.MakeNoopLogger()
	a := NewAuth(deps.users, deps.hasher, NewTokenService(deps.manager, log), adminEmails, log)

	return a, deps
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	apiErr, ok := apierror.As(err)
	require.True(t, ok, "expected API error, got %v", err)
	assert.Equal(t, status, apiErr.Status)
}

func TestAuth_Register(t *testing.T) {
	t.Parallel()

	t.Run("new user", func(t *testing.T) {
		t.Parallel()

		a, deps := newTestAuth(t)
		created := model.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Role: model.RoleUser}

		deps.users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{}, model.ErrNotFound)
		deps.hasher.On("Hash", "secret1").Return([]byte("hash"), nil)
		deps.users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.ID != uuid.Nil &&
				u.Name == "Ada" &&
				u.Email == "ada@example.com" &&
				string(u.PasswordHash) == "hash" &&
				u.Role == model.RoleUser &&
				!u.CreatedAt.IsZero()
		})).Return(created, nil)
		deps.manager.On("GenerateToken", model.Principal{UserID: created.ID, Role: model.RoleUser}).Return("tok", nil)

		session, err := a.Register(context.Background(), model.RegisterParams{
			Name:     " Ada ",
			Email:    "  Ada@Example.COM ",
			Password: "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, "tok", session.Token)
		assert.Equal(t, created, session.User)
	})

	t.Run("admin email", func(t *testing.T) {
		t.Parallel()

		a, deps := newTestAuth(t, "Root@Example.com")
		created := model.User{ID: uuid.New(), Email: "root@example.com", Role: model.RoleAdmin}

		deps.users.On("GetByEmail", mock.Anything, "root@example.com").Return(model.User{}, model.ErrNotFound)
		deps.hasher.On("Hash", "secret1").Return([]byte("hash"), nil)
		deps.users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.Role == model.RoleAdmin
		})).Return(created, nil)
		deps.manager.On("GenerateToken", model.Principal{UserID: created.ID, Role: model.RoleAdmin}).Return("tok", nil)

		session, err := a.Register(context.Background(), model.RegisterParams{Email: "root@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, session.User.Role)
	})

	t.Run("email taken", func(t *testing.T) {
		t.Parallel()

		a, deps := newTestAuth(t)
		deps.users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{ID: uuid.New()}, nil)

		_, err := a.Register(context.Background(), model.RegisterParams{Email: "ada@example.com", Password: "secret1"})
		requireStatus(t, err, http.StatusConflict)
	})

	t.Run("email taken concurrently", func(t *testing.T) {
		t.Parallel()

		a, deps := newTestAuth(t)
		deps.users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{}, model.ErrNotFound)
		deps.hasher.On("Hash", "secret1").Return([]byte("hash"), nil)
		deps.users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrConflict)

		_, err := a.Register(context.Background(), model.RegisterParams{Email: "ada@example.com", Password: "secret1"})
		requireStatus(t, err, http.StatusConflict)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		a, deps := newTestAuth(t)
		deps.users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{}, errors.New("connection reset"))

		_, err := a.Register(context.Background(), model.RegisterParams{Email: "ada@example.com", Password: "secret1"})
		require.Error(t, err)
		_, ok := apierror.As(err)
		assert.False(t, ok)
	})
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()

	user := model.User{ID: uuid.New(), Email: "ada@example.com", PasswordHash: []byte("hash"), Role: model.RoleUser}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		a, deps := newTestAuth(t)
		deps.users.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil)
		deps.hasher.On("Compare", []byte("hash"), "secret1").Return(nil)
		deps.manager.On("GenerateToken", model.Principal{UserID: user.ID, Role: model.RoleUser}).Return("tok", nil)

		session, err := a.Login(context.Background(), "ADA@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "tok", session.Token)
		assert.Equal(t, user, session.User)
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		t.Parallel()

		a, deps := newTestAuth(t)
		deps.users.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil)
		deps.hasher.On("Compare", []byte("hash"), "wrong").Return(errors.New("mismatch"))
		deps.users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, model.ErrNotFound)
		deps.hasher.On("Hash", dummyPassword).Return([]byte("dummy"), nil).Once()
		deps.hasher.On("Compare", []byte("dummy"), "wrong").Return(errors.New("mismatch")).Twice()

		_, wrongPassword := a.Login(context.Background(), "ada@example.com", "wrong")
		_, unknownEmail := a.Login(context.Background(), "nobody@example.com", "wrong")
		_, unknownAgain := a.Login(context.Background(), "nobody@example.com", "wrong")

		requireStatus(t, wrongPassword, http.StatusUnauthorized)
		requireStatus(t, unknownEmail, http.StatusUnauthorized)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
		assert.Equal(t, unknownEmail.Error(), unknownAgain.Error())
	})
}

func TestAuth_Me(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		a, deps := newTestAuth(t)
		user := model.User{ID: uuid.New(), Email: "ada@example.com"}
		deps.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		got, err := a.Me(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("deleted user", func(t *testing.T) {
		t.Parallel()

		a, deps := newTestAuth(t)
		id := uuid.New()
		deps.users.On("GetByID", mock.Anything, id).Return(model.User{}, model.ErrNotFound)

		_, err := a.Me(context.Background(), id)
		requireStatus(t, err, http.StatusNotFound)
	})
}
