package api_test

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/api/apitest"
	"english_admin/internal/config"
	"english_admin/internal/model"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newClient(t *testing.T, srv *apitest.Server, token string) (*api.Client, *int32) {
	t.Helper()
	c, err := api.NewClient(srv.APIConfig())
	require.NoError(t, err)
	var expired int32
	c.Bind(staticToken(token), func(ctx context.Context) { atomic.AddInt32(&expired, 1) })
	return c, &expired
}

func TestClientInjectsBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := api.NewClient(config.APIConfig{BaseURL: srv.URL + "/api"}, api.WithTokenSource(staticToken("abc")))
	require.NoError(t, err)

	exams, err := c.Exams().List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, exams)
	assert.NotNil(t, exams)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := api.NewClient(config.APIConfig{BaseURL: srv.URL}, api.WithTokenSource(staticToken("")))
	require.NoError(t, err)
	require.NoError(t, c.Do(context.Background(), http.MethodDelete, "/exams/1", nil, nil))
	assert.Empty(t, gotAuth)
}

func TestClientUnauthorizedTriggersHook(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c, expired := newClient(t, srv, "stale-token")

	_, err := c.Exams().List(context.Background(), "")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(expired))
}

func TestLoginDoesNotTriggerHook(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c, expired := newClient(t, srv, "")

	_, err := c.Login(context.Background(), srv.Email, "wrong")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, "Invalid email or password", api.Describe(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(expired))

	resp, err := c.Login(context.Background(), srv.Email, srv.Password)
	require.NoError(t, err)
	assert.Equal(t, srv.Token, resp.Token)
	assert.Equal(t, "admin", resp.Username)
	assert.Equal(t, "admin-1", resp.UserID)
}

func TestValidationErrorCarriesFields(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c, _ := newClient(t, srv, srv.Token)

	_, err := c.Exams().Create(context.Background(), "", map[string]interface{}{"title": ""})
	require.Error(t, err)

	var vErr *api.APIValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, http.StatusBadRequest, vErr.Status)
	assert.Equal(t, map[string]string{"title": "must not be blank"}, api.FieldErrors(err))
	assert.Equal(t, "Validation errors:\ntitle: must not be blank", api.Describe(err))

	var base *api.APIError
	assert.True(t, errors.As(err, &base))
}

func TestDescribeFallbacks(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c, _ := newClient(t, srv, srv.Token)
	ctx := context.Background()

	srv.Fail(http.MethodGet, "/api/lessons", http.StatusInternalServerError, map[string]interface{}{"message": "database down"})
	_, err := c.Lessons().List(ctx, "")
	assert.Equal(t, "database down", api.Describe(err))

	srv.Fail(http.MethodGet, "/api/lessons", http.StatusBadGateway, map[string]interface{}{"error": "Bad Gateway"})
	_, err = c.Lessons().List(ctx, "")
	assert.Equal(t, "Bad Gateway", api.Describe(err))

	srv.Fail(http.MethodGet, "/api/lessons", http.StatusServiceUnavailable, map[string]interface{}{})
	_, err = c.Lessons().List(ctx, "")
	assert.Equal(t, "Request failed (503 Service Unavailable)", api.Describe(err))
}

func TestNotFoundAndNetworkErrors(t *testing.T) {
	srv := apitest.NewServer()
	c, _ := newClient(t, srv, srv.Token)

	_, err := c.Games().Get(context.Background(), "missing")
	assert.True(t, api.IsNotFound(err))

	srv.Close()
	_, err = c.Games().List(context.Background(), "")
	var netErr *api.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Contains(t, api.Describe(err), "Cannot reach the server")
}

func TestEndpointRoundTrip(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c, _ := newClient(t, srv, srv.Token)
	ctx := context.Background()

	exam, err := c.Exams().Create(ctx, "", model.Exam{Title: "IELTS Mock", ExamType: "IELTS", DurationMinutes: 60})
	require.NoError(t, err)
	require.NotEmpty(t, exam.ExamID)

	section, err := c.Sections().Create(ctx, exam.ExamID, model.Section{Title: "Listening", OrderIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, exam.ExamID, section.ExamID)

	sections, err := c.Sections().List(ctx, exam.ExamID)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	updated, err := c.Exams().Update(ctx, exam.ExamID, map[string]interface{}{"title": "IELTS Mock 2"})
	require.NoError(t, err)
	assert.Equal(t, "IELTS Mock 2", updated.Title)
	assert.Equal(t, 60, updated.DurationMinutes)

	require.NoError(t, c.Exams().Delete(ctx, exam.ExamID))
	exams, err := c.Exams().List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, exams)
}

func TestGameContentListsFromContentEndpoint(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c, _ := newClient(t, srv, srv.Token)
	ctx := context.Background()

	gameID := srv.Seed("games", map[string]interface{}{"title": "Puzzles", "gameType": "PUZZLE"})
	_, err := c.Puzzles().Create(ctx, gameID, model.Puzzle{Sentence: "I love cats", PuzzleType: "sentence"})
	require.NoError(t, err)

	items, err := c.Puzzles().List(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "I love cats", items[0].Sentence)
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/games/"+gameID+"/content"))
}

func TestUploadAudioAbsolutisesURL(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c, _ := newClient(t, srv, srv.Token)

	res, err := c.UploadAudio(context.Background(), "clip.mp3", strings.NewReader("ID3 fake audio"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, srv.URL+"/api/files/audio/"), res.URL)
	assert.True(t, strings.HasSuffix(res.URL, ".mp3"))

	data, ok := srv.Upload(res.Filename)
	require.True(t, ok)
	assert.Equal(t, "ID3 fake audio", string(data))
}

func TestApplyTemplateAcceptsTextResponse(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c, _ := newClient(t, srv, srv.Token)
	ctx := context.Background()

	require.NoError(t, c.ApplyTemplate(ctx, "Basic"))
	listening, err := c.AssessmentQuestionsBySkill(ctx, model.SkillListening)
	require.NoError(t, err)
	require.Len(t, listening, 1)
	assert.Equal(t, model.SkillListening, listening[0].SkillType)
}

func TestReconfigureSwitchesBaseURL(t *testing.T) {
	first := apitest.NewServer()
	defer first.Close()
	second := apitest.NewServer()
	defer second.Close()

	c, _ := newClient(t, first, first.Token)
	require.NoError(t, c.Reconfigure(second.APIConfig()))
	_, err := c.Users().List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Count(http.MethodGet, "/api/users"))
	assert.Equal(t, 1, second.Count(http.MethodGet, "/api/users"))
}
