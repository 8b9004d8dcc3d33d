package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apicontext "github.com/dtroode/videobite-server/internal/api/http/context"
	"github.com/dtroode/videobite-server/internal/model"
	"github.com/dtroode/videobite-server/internal/testutil"
	"github.com/dtroode/videobite-server/internal/validation"
)

func newTestApp(production bool) *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler:    ErrorHandler(testutil.MakeNoopLogger(), production),
		StructValidator: validation.New(),
	})
}

// asPrincipal authenticates every request as p; a zero principal leaves the request anonymous.
func asPrincipal(cm *apicontext.Manager, p model.Principal) fiber.Handler {
	return func(c fiber.Ctx) error {
		if p.UserID != uuid.Nil {
			c.SetContext(cm.SetPrincipalToContext(c.Context(), p))
		}
		return c.Next()
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

type fiberTestApp struct {
	t   *testing.T
	app *fiber.App
}

func (a *fiberTestApp) do(method, path, body string) (int, map[string]any) {
	a.t.Helper()
	return doJSON(a.t, a.app, method, path, body)
}
