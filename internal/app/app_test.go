package app

import (
	"bytes"
	"encoding/json"
	"english_admin/internal/api"
	"english_admin/internal/api/apitest"
	"english_admin/internal/config"
	"english_admin/internal/session"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	t   *testing.T
	srv *apitest.Server
	app *App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: "0", Mode: "test"},
		API:     srv.APIConfig(),
		Session: config.SessionConfig{Store: "file"},
		Storage: config.StorageConfig{Type: "backend"},
	}
	client, err := api.NewClient(cfg.API)
	require.NoError(t, err)

	a := &App{Config: cfg}
	require.NoError(t, a.Assemble(client, session.NewMemoryKV()))
	return &harness{t: t, srv: srv, app: a}
}

func (h *harness) do(method, path string, body interface{}) (int, envelope) {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.app.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (h *harness) login() {
	h.t.Helper()
	code, _ := h.do(http.MethodPost, "/console/login", gin.H{
		"email":    apitest.DefaultEmail,
		"password": apitest.DefaultPassword,
	})
	require.Equal(h.t, http.StatusOK, code)
}

func examValues(title string) gin.H {
	return gin.H{"values": gin.H{
		"title":           title,
		"examType":        "IELTS",
		"level":           "Intermediate",
		"description":     "",
		"durationMinutes": 60,
		"totalScore":      40,
	}}
}

func TestConsoleRequiresLogin(t *testing.T) {
	h := newHarness(t)

	code, env := h.do(http.MethodGet, "/console/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, string(env.Data), "/console/login")
	assert.Zero(t, h.srv.Count(http.MethodGet, "/api/exams"))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h := newHarness(t)

	code, env := h.do(http.MethodPost, "/console/login", gin.H{"email": apitest.DefaultEmail, "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid email or password", env.Message)
	assert.False(t, h.app.Store.Authenticated())
}

func TestLoginThenMe(t *testing.T) {
	h := newHarness(t)
	h.login()

	code, env := h.do(http.MethodGet, "/console/me", nil)
	require.Equal(t, http.StatusOK, code)
	var me struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "admin-1", me.UserID)
	assert.Equal(t, apitest.DefaultEmail, me.Email)
}

func TestScreenCreateValidatesBeforeCallingBackend(t *testing.T) {
	h := newHarness(t)
	h.login()

	code, env := h.do(http.MethodPost, "/console/screens/exams", examValues(""))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "title")
	assert.Zero(t, h.srv.Count(http.MethodPost, "/api/exams"))
}

func TestScreenCrudRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.login()

	code, env := h.do(http.MethodPost, "/console/screens/exams", examValues("IELTS Mock 1"))
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created struct {
		Item struct {
			ExamID string `json:"examId"`
		} `json:"item"`
		List struct {
			Items []map[string]interface{} `json:"items"`
		} `json:"list"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.Item.ExamID)
	assert.Len(t, created.List.Items, 1)

	code, _ = h.do(http.MethodGet, "/console/screens/exams?q=mock", nil)
	assert.Equal(t, http.StatusOK, code)

	// 未确认不删除
	code, _ = h.do(http.MethodDelete, "/console/screens/exams/"+created.Item.ExamID, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Len(t, h.srv.Records("exams"), 1)

	code, _ = h.do(http.MethodDelete, "/console/screens/exams/"+created.Item.ExamID+"?confirm=true", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, h.srv.Records("exams"))
}

func TestUnknownScreenIsNotFound(t *testing.T) {
	h := newHarness(t)
	h.login()

	code, _ := h.do(http.MethodGet, "/console/screens/widgets", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBackend401ClearsSession(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.srv.SetToken("rotated")

	code, env := h.do(http.MethodGet, "/console/screens/exams", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, string(env.Data), "/console/login")
	assert.False(t, h.app.Store.Authenticated())

	code, _ = h.do(http.MethodGet, "/console/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUnsupportedGameContent(t *testing.T) {
	h := newHarness(t)
	h.login()
	gameID := h.srv.Seed("games", map[string]interface{}{"title": "Race", "gameType": "SPEED_RUN"})

	code, env := h.do(http.MethodGet, "/console/games/"+gameID+"/content", nil)
	require.Equal(t, http.StatusOK, code)
	var body struct {
		Supported bool   `json:"supported"`
		GameType  string `json:"gameType"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.False(t, body.Supported)
	assert.Equal(t, "SPEED_RUN", body.GameType)
}

func TestNavigationOpensExam(t *testing.T) {
	h := newHarness(t)
	h.login()
	examID := h.srv.Seed("exams", map[string]interface{}{"title": "TOEIC"})
	h.srv.Seed("sections", map[string]interface{}{"examId": examID, "title": "Listening"})

	code, env := h.do(http.MethodPost, "/console/nav/exams/open", gin.H{"depth": 0, "id": examID})
	require.Equal(t, http.StatusOK, code, env.Message)
	var frames []struct {
		Depth    int                        `json:"depth"`
		ID       string                     `json:"id"`
		Children map[string]json.RawMessage `json:"children"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &frames))
	require.Len(t, frames, 1)
	assert.Equal(t, examID, frames[0].ID)
	assert.Contains(t, string(frames[0].Children["sections"]), "Listening")

	// 上级未选中
	code, _ = h.do(http.MethodPost, "/console/nav/exams/open", gin.H{"depth": 2, "id": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLogoutResetsScreens(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.srv.Seed("exams", map[string]interface{}{"title": "A", "examType": "IELTS", "durationMinutes": 60})
	code, _ := h.do(http.MethodGet, "/console/screens/exams", nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = h.do(http.MethodPost, "/console/logout", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, h.app.Store.Authenticated())

	sc, err := h.app.services.screens.Get("exams")
	require.NoError(t, err)
	_, found := sc.Find(h.srv.Records("exams")[0]["examId"].(string))
	assert.False(t, found)
}
