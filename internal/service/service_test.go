package service_test

import (
	"bytes"
	"context"
	"english_admin/internal/api"
	"english_admin/internal/api/apitest"
	"english_admin/internal/config"
	"english_admin/internal/content"
	"english_admin/internal/form"
	"english_admin/internal/model"
	"english_admin/internal/navigator"
	"english_admin/internal/resource"
	"english_admin/internal/service"
	"english_admin/internal/util"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type token string

func (t token) Token() string { return string(t) }

func setup(t *testing.T) (*apitest.Server, *api.Client) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	c, err := api.NewClient(srv.APIConfig(), api.WithTokenSource(token(srv.Token)))
	require.NoError(t, err)
	return srv, c
}

func mcQuestion(text string, options ...string) form.State {
	s := form.ExamQuestion
	st := s.Set(s.New(), "textContent", text)
	for len(st.Options) < len(options) {
		st = form.AddOption(st)
	}
	for i, o := range options {
		st = form.UpdateOption(st, i, "optionText", o)
	}
	return form.UpdateOption(st, 0, "isCorrect", true)
}

func TestQuestionOptionsCreatedAndReplaced(t *testing.T) {
	srv, c := setup(t)
	examID := srv.Seed("exams", map[string]interface{}{"title": "IELTS"})
	sectionID := srv.Seed("sections", map[string]interface{}{"examId": examID, "title": "Reading"})
	nav := service.NewNavigationService(c)
	ctx := context.Background()

	_, err := nav.Open(ctx, navigator.ExamTree(c).Name, 0, examID)
	require.NoError(t, err)
	_, err = nav.Open(ctx, "exams", 1, sectionID)
	require.NoError(t, err)

	created, err := nav.CreateChild(ctx, "exams", 1, navigator.ChildQuestions, mcQuestion("Pick", "A", "B", "C"))
	require.NoError(t, err)
	qid := created.EntityID()
	assert.Len(t, srv.Records("options"), 3)

	questions, err := (mustNav(t, nav, "exams")).Children(1, navigator.ChildQuestions)
	require.NoError(t, err)
	assert.Len(t, questions, 1)

	_, err = nav.UpdateChild(ctx, "exams", 1, navigator.ChildQuestions, qid, mcQuestion("Pick again", "X", "Y"))
	require.NoError(t, err)
	opts := srv.Records("options")
	require.Len(t, opts, 2)
	assert.Equal(t, "X", opts[0]["optionText"])
	assert.Equal(t, qid, opts[0]["questionId"])
}

func mustNav(t *testing.T, s *service.NavigationService, tree string) *navigator.Navigator {
	t.Helper()
	n, err := s.Navigator(tree)
	require.NoError(t, err)
	return n
}

func TestChildMutationNeedsSelection(t *testing.T) {
	srv, c := setup(t)
	nav := service.NewNavigationService(c)
	st := form.Section.Set(form.Section.New(), "title", "Listening")

	_, err := nav.CreateChild(context.Background(), "exams", 0, navigator.ChildSections, st)
	assert.ErrorIs(t, err, util.ErrParentNotSelected)
	assert.Empty(t, srv.Records("sections"))

	_, err = nav.CreateChild(context.Background(), "nope", 0, navigator.ChildSections, st)
	assert.ErrorIs(t, err, util.ErrUnknownResource)
}

func TestChildMustBelongToItsLevel(t *testing.T) {
	srv, c := setup(t)
	examID := srv.Seed("exams", map[string]interface{}{"title": "IELTS"})
	otherExam := srv.Seed("exams", map[string]interface{}{"title": "TOEIC"})
	foreign := srv.Seed("sections", map[string]interface{}{"examId": otherExam, "title": "Reading"})
	nav := service.NewNavigationService(c)
	ctx := context.Background()

	_, err := nav.Open(ctx, "exams", 0, examID)
	require.NoError(t, err)

	// 题目挂在分组下，不能直接建在考试层
	_, err = nav.CreateChild(ctx, "exams", 0, navigator.ChildQuestions, mcQuestion("Pick", "A", "B"))
	assert.ErrorIs(t, err, util.ErrUnknownResource)
	assert.Empty(t, srv.Records("questions"))
	assert.Zero(t, srv.Count(http.MethodPost, "/api/sections/"+examID+"/questions"))

	_, _, err = nav.ChildForm(ctx, "exams", 0, navigator.ChildQuestions, "")
	assert.ErrorIs(t, err, util.ErrUnknownResource)

	// 其他考试的分组不在当前选中节点下
	st := form.Section.Set(form.Section.New(), "title", "Hijack")
	_, err = nav.UpdateChild(ctx, "exams", 0, navigator.ChildSections, foreign, st)
	assert.ErrorIs(t, err, util.ErrParentNotSelected)
	err = nav.DeleteChild(ctx, "exams", 0, navigator.ChildSections, foreign, true)
	assert.ErrorIs(t, err, util.ErrParentNotSelected)
	require.Len(t, srv.Records("sections"), 1)
	assert.Equal(t, "Reading", srv.Records("sections")[0]["title"])
}

// failOptions 让所有新建选项的请求在传输层失败
type failOptions struct{ next http.RoundTripper }

func (f failOptions) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/options") {
		return nil, errors.New("connection reset")
	}
	return f.next.RoundTrip(r)
}

func TestQuestionRolledBackWhenOptionsFail(t *testing.T) {
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	c, err := api.NewClient(srv.APIConfig(),
		api.WithTokenSource(token(srv.Token)),
		api.WithHTTPClient(&http.Client{Transport: failOptions{next: http.DefaultTransport}}),
	)
	require.NoError(t, err)

	examID := srv.Seed("exams", map[string]interface{}{"title": "IELTS"})
	sectionID := srv.Seed("sections", map[string]interface{}{"examId": examID, "title": "Reading"})
	nav := service.NewNavigationService(c)
	ctx := context.Background()
	_, err = nav.Open(ctx, "exams", 0, examID)
	require.NoError(t, err)
	_, err = nav.Open(ctx, "exams", 1, sectionID)
	require.NoError(t, err)

	st := mcQuestion("Pick", "A", "B")
	for i := 0; i < 2; i++ {
		created, err := nav.CreateChild(ctx, "exams", 1, navigator.ChildQuestions, st)
		require.Error(t, err)
		assert.Nil(t, created)
	}
	assert.Empty(t, srv.Records("questions"))

	questions, err := mustNav(t, nav, "exams").Children(1, navigator.ChildQuestions)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestDeleteSelectedChildClosesItsFrame(t *testing.T) {
	srv, c := setup(t)
	gameID := srv.Seed("games", map[string]interface{}{"title": "Match", "gameType": "WORD_MATCH"})
	roomID := srv.Seed("rooms", map[string]interface{}{"gameId": gameID, "roomName": "Lobby"})
	nav := service.NewNavigationService(c)
	ctx := context.Background()

	_, err := nav.Open(ctx, "games", 0, gameID)
	require.NoError(t, err)
	_, err = nav.Open(ctx, "games", 1, roomID)
	require.NoError(t, err)

	err = nav.DeleteChild(ctx, "games", 0, navigator.ChildRooms, roomID, false)
	assert.ErrorIs(t, err, util.ErrConfirmationDeclined)
	assert.Equal(t, 0, srv.Count(http.MethodDelete, "/api/rooms/"+roomID))

	require.NoError(t, nav.DeleteChild(ctx, "games", 0, navigator.ChildRooms, roomID, true))
	frames, err := nav.Frames("games")
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, 0, frames[0].Children[navigator.ChildRooms].Total)
}

func TestDashboardDegradesPerCount(t *testing.T) {
	srv, c := setup(t)
	srv.Seed("exams", map[string]interface{}{"title": "A"})
	srv.Seed("exams", map[string]interface{}{"title": "B"})
	srv.Seed("lessons", map[string]interface{}{"title": "L"})
	srv.Fail(http.MethodGet, "/api/sessions", http.StatusNotFound, map[string]interface{}{"message": "No static resource sessions."})

	stats := service.NewDashboardService(c).Stats(context.Background())
	assert.Equal(t, 2, stats.Exams)
	assert.Equal(t, 1, stats.Lessons)
	assert.Equal(t, 0, stats.Sessions)
	assert.Equal(t, "No static resource sessions.", stats.Notices["sessions"])
	assert.NotContains(t, stats.Notices, "exams")
}

func TestAssessmentScreenFiltersBySkill(t *testing.T) {
	srv, c := setup(t)
	srv.Seed("assessment-questions", map[string]interface{}{"skillType": "LISTENING", "textContent": "Hear"})
	srv.Seed("assessment-questions", map[string]interface{}{"skillType": "READING", "textContent": "Read"})
	screens := service.NewScreenService(c)

	sc, err := screens.Get(service.ScreenAssessmentQuestions)
	require.NoError(t, err)
	require.NoError(t, sc.Refresh(context.Background(), resource.Filter{Param: "reading"}))
	view := sc.Snapshot().(resource.View[model.AssessmentQuestion])
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Read", view.Items[0].TextContent)
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/assessments/questions/skill/READING"))
}

func TestApplyTemplateRefreshesQuestions(t *testing.T) {
	_, c := setup(t)
	screens := service.NewScreenService(c)
	svc := service.NewAssessmentService(c, screens)

	require.NoError(t, svc.ApplyTemplate(context.Background(), "basic"))
	sc, _ := screens.Get(service.ScreenAssessmentQuestions)
	view := sc.Snapshot().(resource.View[model.AssessmentQuestion])
	assert.Len(t, view.Items, 6)
}

func TestUsersScreenIsReadOnly(t *testing.T) {
	srv, c := setup(t)
	userID := srv.Seed("users", map[string]interface{}{"username": "lan", "email": "lan@example.com"})
	sc, err := service.NewScreenService(c).Get(service.ScreenUsers)
	require.NoError(t, err)
	assert.False(t, sc.Editable())

	err = sc.Remove(context.Background(), userID, true)
	assert.ErrorIs(t, err, util.ErrUnknownResource)
	assert.Equal(t, 0, srv.Count(http.MethodDelete, "/api/users/"+userID))
}

func TestContentServiceUnsupportedGame(t *testing.T) {
	srv, c := setup(t)
	gameID := srv.Seed("games", map[string]interface{}{"title": "Memory", "gameType": "MEMORY"})
	_, err := service.NewContentService(c).Open(context.Background(), gameID)
	var unsupported *content.UnsupportedError
	assert.ErrorAs(t, err, &unsupported)
}

func TestContentServicePreview(t *testing.T) {
	srv, c := setup(t)
	gameID := srv.Seed("games", map[string]interface{}{"title": "Order", "gameType": "PUZZLE"})
	svc := service.NewContentService(c)

	st := form.Puzzle.Set(form.Puzzle.New(), "sentence", "I love cats")
	p, err := svc.Preview(context.Background(), gameID, st)
	require.NoError(t, err)
	assert.Equal(t, content.DifficultyEasy, p.Difficulty)
	assert.Equal(t, 3, p.WordCount)
}

var mp3Header = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x00}, 64)...)

func storage(t *testing.T, c *api.Client, maxMB int64) *service.StorageService {
	t.Helper()
	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageBackend}, Media: config.MediaConfig{MaxAudioMB: maxMB}}
	return service.NewStorageService(cfg, c)
}

func TestUploadAudioThroughBackend(t *testing.T) {
	srv, c := setup(t)
	res, err := storage(t, c, 1).UploadAudio(context.Background(), "listening-1.mp3", bytes.NewReader(mp3Header), int64(len(mp3Header)))
	require.NoError(t, err)
	assert.Equal(t, util.StorageBackend, res.Provider)
	assert.True(t, strings.HasPrefix(res.URL, srv.URL+"/api/files/audio/"), res.URL)
	assert.Equal(t, "audio/mpeg", res.ContentType)
	assert.Equal(t, int64(len(mp3Header)), res.Size)
}

func TestUploadRejectsNonAudio(t *testing.T) {
	srv, c := setup(t)
	_, err := storage(t, c, 1).UploadAudio(context.Background(), "notes.txt", strings.NewReader("plain text, not audio"), -1)
	assert.ErrorIs(t, err, util.ErrInvalidAudio)
	assert.Equal(t, 0, srv.Count(http.MethodPost, "/api/files/upload/audio"))

	_, err = storage(t, c, 1).UploadAudio(context.Background(), "big.mp3", bytes.NewReader(mp3Header), 2<<20)
	assert.ErrorIs(t, err, util.ErrAudioTooLarge)
}

func TestSessionReportIsPDF(t *testing.T) {
	srv, c := setup(t)
	examID := srv.Seed("exams", map[string]interface{}{"title": "TOEIC"})
	sessionID := srv.Seed("sessions", map[string]interface{}{"examId": examID, "userId": "u1", "finalScore": 75.5, "totalCorrect": 3})
	srv.Seed("answers", map[string]interface{}{"sessionId": sessionID, "textResponse": "Tiếng Việt answer", "isCorrect": true, "scoreEarned": 5})
	srv.Seed("answers", map[string]interface{}{"sessionId": sessionID, "selectedOption": map[string]interface{}{"optionText": "B"}, "isCorrect": false})

	var buf bytes.Buffer
	require.NoError(t, service.NewSessionService(c).Report(context.Background(), sessionID, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	err := service.NewSessionService(c).Delete(context.Background(), sessionID, false)
	assert.ErrorIs(t, err, util.ErrConfirmationDeclined)
}

func TestUserDetailIncludesAssessments(t *testing.T) {
	srv, c := setup(t)
	userID := srv.Seed("users", map[string]interface{}{"username": "lan", "email": "lan@example.com"})
	srv.Seed("assessments", map[string]interface{}{"userId": userID, "overallLevel": "B1"})
	srv.Seed("assessments", map[string]interface{}{"userId": "someone-else"})

	detail, err := service.NewUserService(c).Detail(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "lan", detail.User.Username)
	assert.Len(t, detail.Assessments, 1)
	assert.Empty(t, detail.Notice)
}

func TestUserDetailDegradesWhenAssessmentsFail(t *testing.T) {
	srv, c := setup(t)
	userID := srv.Seed("users", map[string]interface{}{"username": "minh"})
	srv.Fail(http.MethodGet, "/api/assessments/users/"+userID, http.StatusInternalServerError, map[string]interface{}{"message": "boom"})

	detail, err := service.NewUserService(c).Detail(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, detail.Assessments)
	assert.Equal(t, "boom", detail.Notice)

	_, err = service.NewUserService(c).Detail(context.Background(), "missing")
	assert.True(t, api.IsNotFound(err))
}
