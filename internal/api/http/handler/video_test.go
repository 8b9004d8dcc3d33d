package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apicontext "github.com/dtroode/videobite-server/internal/api/http/context"
	"github.com/dtroode/videobite-server/internal/apierror"
	"github.com/dtroode/videobite-server/internal/mocks"
	"github.com/dtroode/videobite-server/internal/model"
	"github.com/dtroode/videobite-server/internal/testutil"
)

const testVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

var testPrincipal = model.Principal{UserID: uuid.MustParse("0b5a3e38-3b4e-4a4e-9d8e-0a4b1a6c2f11"), Role: model.RoleUser}

func testSummary() model.VideoSummary {
	return model.VideoSummary{
		ID:             uuid.New(),
		VideoID:        "dQw4w9WgXcQ",
		VideoURL:       testVideoURL,
		OwnerID:        testPrincipal.UserID,
		Title:          "Never Gonna Give You Up",
		ChannelTitle:   "Rick Astley",
		Duration:       "PT3M33S",
		Summary:        "A song about commitment.",
		KeyPoints:      []string{"commitment"},
		ImportantTerms: []model.Term{{Term: "rickroll", Definition: "a prank"}},
		Language:       "en",
		CreatedAt:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func newVideoApp(t *testing.T, principal model.Principal) (*mocks.SummaryService, *fiberTestApp) {
	t.Helper()

	cm := apicontext.NewManager()
	summaryService := mocks.NewSummaryService(t)
	h := NewVideo(summaryService, cm, testutil.MakeNoopLogger())

	app := newTestApp(false)
	app.Use(asPrincipal(cm, principal))
	app.Post("/summaries", h.CreateSummary)
	app.Get("/summaries", h.MySummaries)
	app.Post("/summaries/channel", h.SummarizeChannel)
	app.Get("/summaries/:id", h.GetSummary)
	app.Delete("/summaries/:id", h.DeleteSummary)
	app.Post("/summaries/:id/favorite", h.ToggleFavorite)

	return summaryService, &fiberTestApp{t: t, app: app}
}

func TestVideo_CreateSummary(t *testing.T) {
	t.Parallel()

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		summary := testSummary()
		svc, app := newVideoApp(t, model.Principal{})
		svc.On("Create", mock.Anything, model.CreateSummaryParams{URL: testVideoURL}).
			Return(summary, nil).Once()

		status, body := app.do(http.MethodPost, "/summaries", `{"videoUrl":"`+testVideoURL+`"}`)

		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["success"])
		data := body["data"].(map[string]any)
		assert.Equal(t, summary.ID.String(), data["summaryId"])
		assert.Equal(t, "dQw4w9WgXcQ", data["videoId"])
		assert.Equal(t, "PT3M33S", data["duration"])
		assert.Equal(t, []any{"commitment"}, data["keyPoints"])
		assert.Equal(t, []any{map[string]any{"term": "rickroll", "definition": "a prank"}}, data["importantTerms"])
		assert.Equal(t, "2025-01-02T03:04:05Z", data["createdAt"])
	})

	t.Run("authenticated with language", func(t *testing.T) {
		t.Parallel()

		svc, app := newVideoApp(t, testPrincipal)
		svc.On("Create", mock.Anything, model.CreateSummaryParams{
			URL: testVideoURL, Language: "en", Requester: testPrincipal,
		}).Return(testSummary(), nil).Once()

		status, _ := app.do(http.MethodPost, "/summaries", `{"videoUrl":"`+testVideoURL+`","language":"en"}`)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("not persisted", func(t *testing.T) {
		t.Parallel()

		summary := testSummary()
		summary.ID = uuid.Nil
		summary.KeyPoints = nil
		summary.ImportantTerms = nil
		svc, app := newVideoApp(t, model.Principal{})
		svc.On("Create", mock.Anything, mock.Anything).Return(summary, nil).Once()

		status, body := app.do(http.MethodPost, "/summaries", `{"videoUrl":"`+testVideoURL+`"}`)

		require.Equal(t, http.StatusOK, status)
		data := body["data"].(map[string]any)
		assert.Contains(t, data, "summaryId")
		assert.Nil(t, data["summaryId"])
		assert.Equal(t, []any{}, data["keyPoints"])
		assert.Equal(t, []any{}, data["importantTerms"])
	})

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{name: "missing url", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "language too long", body: `{"videoUrl":"x","language":"english"}`, wantStatus: http.StatusBadRequest},
		{name: "invalid url", body: `{"videoUrl":"https://vimeo.com/1"}`, serviceErr: apierror.NewErrInvalidURL(), wantStatus: http.StatusBadRequest},
		{name: "video not found", body: `{"videoUrl":"` + testVideoURL + `"}`, serviceErr: apierror.NewErrVideoNotFound("dQw4w9WgXcQ"), wantStatus: http.StatusNotFound},
		{name: "summarizer failed", body: `{"videoUrl":"` + testVideoURL + `"}`, serviceErr: apierror.NewErrSummarizationFailed(assert.AnError), wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, app := newVideoApp(t, model.Principal{})
			if tt.serviceErr != nil {
				svc.On("Create", mock.Anything, mock.Anything).Return(model.VideoSummary{}, tt.serviceErr).Once()
			}

			status, body := app.do(http.MethodPost, "/summaries", tt.body)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestVideo_MySummaries(t *testing.T) {
	t.Parallel()

	t.Run("lists", func(t *testing.T) {
		t.Parallel()

		svc, app := newVideoApp(t, testPrincipal)
		svc.On("List", mock.Anything, testPrincipal).
			Return([]model.VideoSummary{testSummary(), testSummary()}, nil).Once()

		status, body := app.do(http.MethodGet, "/summaries", "")

		require.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 2, body["count"])
		assert.Len(t, body["summaries"], 2)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		svc, app := newVideoApp(t, testPrincipal)
		svc.On("List", mock.Anything, testPrincipal).Return(nil, nil).Once()

		status, body := app.do(http.MethodGet, "/summaries", "")

		require.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 0, body["count"])
		assert.Equal(t, []any{}, body["summaries"])
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		svc, app := newVideoApp(t, model.Principal{})
		svc.On("List", mock.Anything, model.Principal{}).Return(nil, apierror.NewErrUnauthorized()).Once()

		status, _ := app.do(http.MethodGet, "/summaries", "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestVideo_SummaryByID(t *testing.T) {
	t.Parallel()

	summary := testSummary()
	path := "/summaries/" + summary.ID.String()

	tests := []struct {
		name       string
		method     string
		path       string
		setup      func(m *mocks.SummaryService)
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:   "get",
			method: http.MethodGet,
			path:   path,
			setup: func(m *mocks.SummaryService) {
				m.On("Get", mock.Anything, testPrincipal, summary.ID).Return(summary, nil).Once()
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, summary.ID.String(), body["data"].(map[string]any)["summaryId"])
			},
		},
		{
			name:       "get malformed id",
			method:     http.MethodGet,
			path:       "/summaries/not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "get forbidden",
			method: http.MethodGet,
			path:   path,
			setup: func(m *mocks.SummaryService) {
				m.On("Get", mock.Anything, testPrincipal, summary.ID).Return(model.VideoSummary{}, apierror.NewErrForbidden()).Once()
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   path,
			setup: func(m *mocks.SummaryService) {
				m.On("Delete", mock.Anything, testPrincipal, summary.ID).Return(nil).Once()
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Summary deleted successfully", body["message"])
			},
		},
		{
			name:   "delete missing",
			method: http.MethodDelete,
			path:   path,
			setup: func(m *mocks.SummaryService) {
				m.On("Delete", mock.Anything, testPrincipal, summary.ID).Return(apierror.NewErrSummaryNotFound()).Once()
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "favorite",
			method: http.MethodPost,
			path:   path + "/favorite",
			setup: func(m *mocks.SummaryService) {
				m.On("ToggleFavorite", mock.Anything, testPrincipal, summary.ID).Return(true, nil).Once()
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["isFavorite"])
			},
		},
		{
			name:       "favorite malformed id",
			method:     http.MethodPost,
			path:       "/summaries/123/favorite",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, app := newVideoApp(t, testPrincipal)
			if tt.setup != nil {
				tt.setup(svc)
			}

			status, body := app.do(tt.method, tt.path, "")

			assert.Equal(t, tt.wantStatus, status)
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestVideo_SummarizeChannel(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		svc, app := newVideoApp(t, testPrincipal)
		svc.On("SummarizeChannel", mock.Anything, model.ChannelParams{
			ChannelID: "UC123", MaxVideos: 3, Requester: testPrincipal,
		}).Return([]model.VideoSummary{testSummary()}, nil).Once()

		status, body := app.do(http.MethodPost, "/summaries/channel", `{"channelId":"UC123","maxVideos":3}`)

		require.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("too many videos", func(t *testing.T) {
		t.Parallel()

		_, app := newVideoApp(t, testPrincipal)

		status, body := app.do(http.MethodPost, "/summaries/channel", `{"channelId":"UC123","maxVideos":51}`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "maxVideos must be at most 50", body["message"])
	})

	t.Run("missing channel", func(t *testing.T) {
		t.Parallel()

		_, app := newVideoApp(t, testPrincipal)

		status, body := app.do(http.MethodPost, "/summaries/channel", `{}`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "channelId is required", body["message"])
	})
}
